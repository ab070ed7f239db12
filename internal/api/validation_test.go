package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Count int    `json:"count" binding:"omitempty,min=1"`
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req sampleRequest
		if !BindJSON(c, &req, "Missing required fields.") {
			return
		}
		c.JSON(http.StatusOK, req)
	})
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := ParseID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []string
	}{
		{"valid", `{"name":"a","email":"a@example.com"}`, http.StatusOK, nil},
		{"missing name", `{"email":"a@example.com"}`, http.StatusBadRequest, []string{"Name"}},
		{"bad email and count", `{"name":"a","email":"nope","count":-1}`, http.StatusBadRequest, []string{"Email", "Count"}},
		{"malformed", `{"name":`, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				return
			}

			var resp ValidationErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Missing required fields.", resp.Message)

			var fields []string
			for _, d := range resp.Details {
				fields = append(fields, d.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestParseID(t *testing.T) {
	r := newRouter()

	for path, want := range map[string]int{
		"/items/12":  http.StatusOK,
		"/items/0":   http.StatusBadRequest,
		"/items/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
