package class

import (
	"net/http"

	"fitfolio/internal/api"
	"fitfolio/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create class
// @Description  Adds a class with a zero booking count.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateClassRequest  true  "Class data"
// @Success      201      {object}  api.InsertedResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /classes [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateClassRequest
	if !api.BindJSON(c, &req, "Name, image, and details are required") {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		logger.Error("create class failed", "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusCreated, api.InsertedResponse{Message: "Class created successfully", InsertedID: created.ID})
}

// List godoc
// @Summary      List classes
// @Tags         classes
// @Produce      json
// @Success      200  {array}   Class
// @Failure      500  {object}  api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// Featured godoc
// @Summary      Most booked classes
// @Tags         classes
// @Produce      json
// @Success      200  {array}   Class
// @Failure      500  {object}  api.ErrorResponse
// @Router       /classes/featured [get]
func (h *Handler) Featured(c *gin.Context) {
	classes, err := h.service.Featured(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, classes)
}
