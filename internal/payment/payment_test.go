package payment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fitfolio/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type MockCreator struct{ mock.Mock }

func (m *MockCreator) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	args := m.Called(ctx, amountCents, currency)
	return args.String(0), args.Error(1)
}

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		price   float64
		want    int64
		wantErr error
	}{
		{25, 2500, nil},
		{19.99, 1999, nil},
		{10.1 + 0.2, 1030, nil},
		{0.5, 50, nil},
		{999999.99, 99999999, nil},
		{0, 0, ErrInvalidPrice},
		{-5, 0, ErrInvalidPrice},
		{math.NaN(), 0, ErrInvalidPrice},
		{0.004, 0, ErrPriceOutOfRange},
		{0.49, 0, ErrPriceOutOfRange},
		{1_000_000, 0, ErrPriceOutOfRange},
		{1e300, 0, ErrPriceOutOfRange},
	}

	for _, tt := range tests {
		got, err := AmountInCents(tt.price)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "price %v", tt.price)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/create-payment-intent", h.CreateIntent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateIntent(t *testing.T) {
	creator := new(MockCreator)
	creator.On("CreateIntent", mock.Anything, int64(1999), "usd").Return("pi_secret", nil)

	w := post(NewHandler(creator, ""), `{"price":19.99}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_secret"}`, w.Body.String())
	creator.AssertExpectations(t)
}

func TestCreateIntent_InvalidPrice(t *testing.T) {
	creator := new(MockCreator)

	bodies := []string{`{"price":0}`, `{"price":-3}`, `{}`, `{"price":"abc"}`, `{"price":0.001}`, `{"price":1e12}`}
	for _, body := range bodies {
		w := post(NewHandler(creator, ""), body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	creator.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateIntent_OutOfRangeMessage(t *testing.T) {
	w := post(NewHandler(new(MockCreator), ""), `{"price":0.2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "between 0.50 and 999999.99")
}

func TestCreateIntent_StripeFailure(t *testing.T) {
	creator := new(MockCreator)
	creator.On("CreateIntent", mock.Anything, int64(500), "usd").Return("", errors.New("card_declined"))

	w := post(NewHandler(creator, ""), `{"price":5}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
