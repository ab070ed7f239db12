package trainer

import (
	"errors"
	"net/http"

	"fitfolio/internal/api"
	"fitfolio/internal/auth"
	"fitfolio/internal/logger"
	"fitfolio/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ApplyResponse struct {
	Message     string       `json:"message" example:"Application submitted"`
	Application *Application `json:"application"`
}

type ApplicationResponse struct {
	Message     string       `json:"message" example:"Trainer approved"`
	Application *Application `json:"application"`
}

// Apply godoc
// @Summary      Apply to become a trainer
// @Description  Submits a pending application for the calling user. Only one application per email is accepted.
// @Tags         trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ApplyRequest  true  "Trainer profile"
// @Success      201      {object}  ApplyResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /trainer/apply [post]
func (h *Handler) Apply(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	var req ApplyRequest
	if !api.BindJSON(c, &req, "Missing required fields.") {
		return
	}

	app, err := h.service.Apply(c.Request.Context(), email, req)
	if err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			api.Fail(c, http.StatusBadRequest, "Already applied!")
			return
		}
		logger.Error("trainer apply failed", "email", email, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Failed to apply", err)
		return
	}

	c.JSON(http.StatusCreated, ApplyResponse{Message: "Application submitted", Application: app})
}

// ListApplications godoc
// @Summary      List pending trainer applications
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Application
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /trainer/applications [get]
func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.service.PendingApplications(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ActivityLog godoc
// @Summary      Trainer application activity log
// @Description  Pending applications followed by rejected ones with their feedback.
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Application
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /trainer/applications/activity-log [get]
func (h *Handler) ActivityLog(c *gin.Context) {
	apps, err := h.service.ActivityLog(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to fetch activity log", err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Approve godoc
// @Summary      Approve trainer application
// @Description  Promotes the applicant to trainer and creates the trainer profile if missing.
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  ApplicationResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /trainer/applications/{id}/approve [patch]
func (h *Handler) Approve(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	app, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			api.Fail(c, http.StatusNotFound, "Application not found")
			return
		}
		logger.Error("approve failed", "application_id", id, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Failed to approve", err)
		return
	}

	c.JSON(http.StatusOK, ApplicationResponse{Message: "Trainer approved", Application: app})
}

// Reject godoc
// @Summary      Reject trainer application
// @Tags         trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int            true   "Application ID"
// @Param        request  body      RejectRequest  false  "Feedback for the applicant"
// @Success      200      {object}  ApplicationResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /trainer/applications/{id}/reject [patch]
func (h *Handler) Reject(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req RejectRequest
	if c.Request.ContentLength > 0 {
		if !api.BindJSON(c, &req, "Invalid request body") {
			return
		}
	}

	app, err := h.service.Reject(c.Request.Context(), id, req.Feedback)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			api.Fail(c, http.StatusNotFound, "Application not found or already rejected.")
			return
		}
		logger.Error("reject failed", "application_id", id, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Failed to reject application", err)
		return
	}

	c.JSON(http.StatusOK, ApplicationResponse{Message: "Application rejected successfully", Application: app})
}

// Demote godoc
// @Summary      Remove trainer role
// @Description  Sets the user back to member and deletes their trainer application.
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /users/remove-trainer/{id} [patch]
func (h *Handler) Demote(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Demote(c.Request.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			api.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("demote failed", "user_id", id, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Failed to remove trainer", err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Trainer role removed successfully."})
}

// ListApproved godoc
// @Summary      List approved trainers
// @Tags         trainers
// @Produce      json
// @Success      200  {array}   Trainer
// @Failure      500  {object}  api.ErrorResponse
// @Router       /trainers/approved [get]
func (h *Handler) ListApproved(c *gin.Context) {
	trainers, err := h.service.Approved(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

// ListFeatured godoc
// @Summary      Featured trainers
// @Tags         trainers
// @Produce      json
// @Success      200  {array}   Trainer
// @Failure      500  {object}  api.ErrorResponse
// @Router       /trainers/featured [get]
func (h *Handler) ListFeatured(c *gin.Context) {
	trainers, err := h.service.Featured(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to fetch trainers", err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

// ListByClass godoc
// @Summary      Trainers teaching a class
// @Tags         trainers
// @Produce      json
// @Param        className  path      string  true  "Class name, matched against trainer skills"
// @Success      200        {array}   Summary
// @Failure      500        {object}  api.ErrorResponse
// @Router       /trainers-by-class/{className} [get]
func (h *Handler) ListByClass(c *gin.Context) {
	trainers, err := h.service.ByClass(c.Request.Context(), c.Param("className"))
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

// GetByID godoc
// @Summary      Trainer details
// @Tags         trainers
// @Produce      json
// @Param        id   path      int  true  "Trainer ID"
// @Success      200  {object}  Trainer
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /trainerdetails/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	h.respondTrainer(c, t, err)
}

// GetByEmail godoc
// @Summary      Trainer details by email
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Param        email  path      string  true  "Trainer email"
// @Success      200    {object}  Trainer
// @Failure      403    {object}  api.ErrorResponse
// @Failure      404    {object}  api.ErrorResponse
// @Failure      500    {object}  api.ErrorResponse
// @Router       /trainer/details/{email} [get]
func (h *Handler) GetByEmail(c *gin.Context) {
	t, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	h.respondTrainer(c, t, err)
}

func (h *Handler) respondTrainer(c *gin.Context, t *Trainer, err error) {
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			api.Fail(c, http.StatusNotFound, "Trainer not found")
			return
		}
		api.FailWithError(c, http.StatusInternalServerError, "Error fetching trainer", err)
		return
	}
	c.JSON(http.StatusOK, t)
}
