package forum

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitfolio/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetEmail(c, "member@example.com")
		c.Next()
	})
	r.POST("/forums", h.Create)
	r.GET("/forums/:id", h.Get)
	r.POST("/forums/:id/vote", h.Vote)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Vote(t *testing.T) {
	svc, _, _ := newTestService(Post{ID: 1, AuthorEmail: "coach@example.com"}, Post{ID: 2, AuthorEmail: "gone@example.com"})
	r := setupRouter(svc)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"invalid value", "/forums/1/vote", `{"vote":5}`, http.StatusBadRequest},
		{"bad id", "/forums/abc/vote", `{"vote":1}`, http.StatusBadRequest},
		{"unknown post", "/forums/9/vote", `{"vote":1}`, http.StatusNotFound},
		{"author missing", "/forums/2/vote", `{"vote":1}`, http.StatusNotFound},
		{"first vote", "/forums/1/vote", `{"vote":1}`, http.StatusOK},
		{"same vote", "/forums/1/vote", `{"vote":1}`, http.StatusBadRequest},
		{"flip", "/forums/1/vote", `{"vote":-1}`, http.StatusOK},
	}

	for _, tt := range tests {
		w := do(r, http.MethodPost, tt.path, tt.body)
		assert.Equal(t, tt.want, w.Code, tt.name)
	}

	w := do(r, http.MethodGet, "/forums/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"voters":{"member@example.com":-1}`)
	assert.Contains(t, w.Body.String(), `"up":0,"down":1`)
}

func TestHandler_Create(t *testing.T) {
	svc, _, _ := newTestService()
	r := setupRouter(svc)

	w := do(r, http.MethodPost, "/forums", `{"title":"Hi","category":"Tips","description":"Body"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Forum post added successfully","postId":1}`, w.Body.String())

	w = do(r, http.MethodPost, "/forums", `{"title":"Hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
