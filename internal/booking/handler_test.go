package booking

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitfolio/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(svc Service, caller string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != "" {
			auth.SetEmail(c, caller)
		}
		c.Next()
	})
	r.POST("/order", h.PlaceOrder)
	r.GET("/bookings", h.ListMine)
	r.GET("/admin/booking-summary", h.Summary)
	return r
}

func postOrder(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_PlaceOrder(t *testing.T) {
	f := newFixture()
	r := setupRouter(f.svc, "m@example.com")

	body := `{"transactionId":"pi_1","trainerId":3,"classId":2,"slotId":10,"price":25}`

	w := postOrder(r, body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Order placed and class/slot updated successfully","insertedId":1}`, w.Body.String())

	w = postOrder(r, body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Order already placed","insertedId":1}`, w.Body.String())

	w = postOrder(r, `{"transactionId":"pi_2","trainerId":3,"classId":2,"slotId":10,"price":25}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_PlaceOrderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing transaction", `{"trainerId":3,"classId":2,"slotId":10}`, http.StatusBadRequest},
		{"unknown trainer", `{"transactionId":"pi_1","trainerId":99,"classId":2,"slotId":10}`, http.StatusNotFound},
		{"unknown class", `{"transactionId":"pi_1","trainerId":3,"classId":99,"slotId":10}`, http.StatusNotFound},
		{"unknown slot", `{"transactionId":"pi_1","trainerId":3,"classId":2,"slotId":99}`, http.StatusNotFound},
		{"mismatch", `{"transactionId":"pi_1","trainerId":4,"classId":2,"slotId":10}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			w := postOrder(setupRouter(f.svc, "m@example.com"), tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandler_RequiresCaller(t *testing.T) {
	f := newFixture()
	w := postOrder(setupRouter(f.svc, ""), `{"transactionId":"pi_1","trainerId":3,"classId":2,"slotId":10}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ListMine(t *testing.T) {
	f := newFixture()
	r := setupRouter(f.svc, "m@example.com")
	postOrder(r, `{"transactionId":"pi_1","trainerId":3,"classId":2,"slotId":10,"price":25}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transactionId":"pi_1"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/booking-summary", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalBalance":25`)
}
