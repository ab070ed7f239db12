package slot

import (
	"errors"
	"net/http"
	"strings"

	"fitfolio/internal/api"
	"fitfolio/internal/auth"
	"fitfolio/internal/class"
	"fitfolio/internal/logger"
	"fitfolio/internal/trainer"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Add godoc
// @Summary      Add slot
// @Description  Creates an unbooked slot for the calling trainer and links it to their profile.
// @Tags         slots
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AddSlotRequest  true  "Slot data"
// @Success      201      {object}  api.InsertedResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /add-slot [post]
func (h *Handler) Add(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	var req AddSlotRequest
	if !api.BindJSON(c, &req, "Missing required fields.") {
		return
	}

	created, err := h.service.Add(c.Request.Context(), email, req)
	if err != nil {
		switch {
		case errors.Is(err, trainer.ErrTrainerNotFound):
			api.Fail(c, http.StatusNotFound, "Trainer not found")
		case errors.Is(err, class.ErrClassNotFound):
			api.Fail(c, http.StatusNotFound, "Class not found")
		default:
			logger.Error("add slot failed", "trainer", email, "error", err)
			api.FailWithError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	c.JSON(http.StatusCreated, api.InsertedResponse{Message: "Slot added successfully", InsertedID: created.ID})
}

// CheckAvailability godoc
// @Summary      Check slot availability
// @Tags         slots
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AvailabilityRequest  true  "Slot id"
// @Success      200      {object}  AvailabilityResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /check-slot-availability [post]
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if !api.BindJSON(c, &req, "slotId is required") {
		return
	}

	available, err := h.service.IsAvailable(c.Request.Context(), req.SlotID)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			api.Fail(c, http.StatusNotFound, "Slot not found")
			return
		}
		api.FailWithError(c, http.StatusInternalServerError, "Error checking slot availability", err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{Available: available})
}

// Delete godoc
// @Summary      Delete slot
// @Description  Only the owning trainer may delete, and never once booked.
// @Tags         slots
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Slot ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /slot/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, email); err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			api.Fail(c, http.StatusNotFound, "Slot not found")
		case errors.Is(err, ErrNotOwner):
			api.Fail(c, http.StatusForbidden, "Forbidden: You can only delete your own slots")
		case errors.Is(err, ErrSlotBooked):
			api.Fail(c, http.StatusBadRequest, "Cannot delete a booked slot")
		default:
			logger.Error("delete slot failed", "id", id, "error", err)
			api.FailWithError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Slot deleted successfully"})
}

// ListAvailable godoc
// @Summary      Available slots of a trainer
// @Tags         slots
// @Produce      json
// @Param        email  path      string  true  "Trainer email"
// @Success      200    {array}   Slot
// @Failure      500    {object}  api.ErrorResponse
// @Router       /slots/trainers/{email} [get]
func (h *Handler) ListAvailable(c *gin.Context) {
	slots, err := h.service.ListAvailable(c.Request.Context(), c.Param("email"))
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ListOwn godoc
// @Summary      All slots of the calling trainer
// @Tags         slots
// @Security     BearerAuth
// @Produce      json
// @Param        trainerEmail  path      string  true  "Trainer email, must be the caller"
// @Success      200           {array}   Slot
// @Failure      403           {object}  api.ErrorResponse
// @Failure      500           {object}  api.ErrorResponse
// @Router       /slots/{trainerEmail} [get]
func (h *Handler) ListOwn(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	if !strings.EqualFold(email, c.Param("trainerEmail")) {
		api.Fail(c, http.StatusForbidden, "forbidden access")
		return
	}

	slots, err := h.service.ListAll(c.Request.Context(), email)
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
