package review

import (
	"errors"
	"net/http"

	"fitfolio/internal/api"
	"fitfolio/internal/auth"
	"fitfolio/internal/booking"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Submit a review
// @Description  Reviews a booking. The reviewer is the authenticated caller.
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReviewRequest  true  "Review"
// @Success      201      {object}  api.InsertedResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /reviews [post]
func (h *Handler) Create(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	var req CreateReviewRequest
	if !api.BindJSON(c, &req, "Missing required review fields") {
		return
	}

	rv, err := h.service.Create(c.Request.Context(), email, req)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			api.Fail(c, http.StatusNotFound, "Booking not found")
			return
		}
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}

	c.JSON(http.StatusCreated, api.InsertedResponse{Message: "Review submitted successfully", InsertedID: rv.ID})
}

// List godoc
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Success      200  {array}   Review
// @Failure      500  {object}  api.ErrorResponse
// @Router       /reviews [get]
func (h *Handler) List(c *gin.Context) {
	reviews, err := h.service.List(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
