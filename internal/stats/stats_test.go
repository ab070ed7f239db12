package stats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subscriberCount struct {
	n   int
	err error
}

func (s subscriberCount) Count(context.Context) (int, error) { return s.n, s.err }

type memberCount struct {
	n   int
	err error
}

func (m memberCount) CountPayingMembers(context.Context) (int, error) { return m.n, m.err }

func TestOverviewCounts(t *testing.T) {
	out, err := OverviewCounts(context.Background(), subscriberCount{n: 12}, memberCount{n: 4})
	require.NoError(t, err)
	assert.Equal(t, &Overview{SubscriberCount: 12, MemberCount: 4}, out)

	_, err = OverviewCounts(context.Background(), subscriberCount{n: 12}, memberCount{err: errors.New("db down")})
	assert.EqualError(t, err, "db down")
}

func TestOverviewHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		members memberCount
		want    int
		body    string
	}{
		{"ok", memberCount{n: 4}, http.StatusOK, `{"subscriberCount":12,"memberCount":4}`},
		{"failure", memberCount{err: errors.New("db down")}, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin/overview-counts", NewHandler(subscriberCount{n: 12}, tt.members).Overview)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/overview-counts", nil))
			assert.Equal(t, tt.want, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}
