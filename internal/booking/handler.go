package booking

import (
	"errors"
	"net/http"

	"fitfolio/internal/api"
	"fitfolio/internal/auth"
	"fitfolio/internal/class"
	"fitfolio/internal/logger"
	"fitfolio/internal/slot"
	"fitfolio/internal/trainer"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// PlaceOrder godoc
// @Summary      Place order
// @Description  Books the slot for the caller after payment. Replaying a transaction id returns the original booking.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      OrderRequest  true  "Order"
// @Success      200      {object}  OrderResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /order [post]
func (h *Handler) PlaceOrder(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	var req OrderRequest
	if !api.BindJSON(c, &req, "Missing order fields") {
		return
	}

	b, replayed, err := h.service.PlaceBooking(c.Request.Context(), email, req)
	if err != nil {
		switch {
		case errors.Is(err, trainer.ErrTrainerNotFound):
			api.Fail(c, http.StatusNotFound, "Trainer not found")
		case errors.Is(err, class.ErrClassNotFound):
			api.Fail(c, http.StatusNotFound, "Class not found")
		case errors.Is(err, slot.ErrSlotNotFound):
			api.Fail(c, http.StatusNotFound, "Slot not found")
		case errors.Is(err, ErrOrderMismatch):
			api.Fail(c, http.StatusBadRequest, "Slot does not match trainer and class")
		case errors.Is(err, ErrSlotAlreadyBooked), errors.Is(err, ErrDuplicateTransaction):
			api.Fail(c, http.StatusConflict, "Slot is already booked")
		case errors.Is(err, ErrTransactionConflict):
			api.Fail(c, http.StatusConflict, "Transaction already used for another order")
		default:
			logger.Error("place order failed", "user", email, "slot_id", req.SlotID, "error", err)
			api.FailWithError(c, http.StatusInternalServerError, "Failed to place order", err)
		}
		return
	}

	msg := "Order placed and class/slot updated successfully"
	if replayed {
		msg = "Order already placed"
	}
	c.JSON(http.StatusOK, OrderResponse{Message: msg, InsertedID: b.ID})
}

// ListMine godoc
// @Summary      My bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Booking
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	bookings, err := h.service.UserBookings(c.Request.Context(), email)
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Summary godoc
// @Summary      Booking revenue summary
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Summary
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/booking-summary [get]
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to load balance summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
