package user

import (
	"errors"
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

// Register godoc
// @Summary      Register user
// @Description  Creates a member or refreshes the last login of an existing user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User profile"
// @Success      201      {object}  RegisterResponse
// @Success      200      {object}  RegisterResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /register [post]
func (h *Handler) Register(c *gin.Context) {
	h.register(c, "User registered")
}

// SocialLogin godoc
// @Summary      Social login
// @Description  Same as register; used by OAuth sign-in on the client.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User profile"
// @Success      201      {object}  RegisterResponse
// @Success      200      {object}  RegisterResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /social-login [post]
func (h *Handler) SocialLogin(c *gin.Context) {
	h.register(c, "User created successfully")
}

func (h *Handler) register(c *gin.Context, createdMessage string) {
	var req RegisterRequest
	if !api.BindJSON(c, &req, "Email is required") {
		return
	}

	u, created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		logger.Error("registration failed", "email", req.Email, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Registration error", err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, RegisterResponse{Message: createdMessage, User: *u})
		return
	}
	c.JSON(http.StatusOK, RegisterResponse{Message: "User already exists", User: *u})
}

// GetRole godoc
// @Summary      Get user role
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "User email"
// @Success      200    {object}  RoleResponse
// @Failure      404    {object}  api.ErrorResponse
// @Failure      500    {object}  api.ErrorResponse
// @Router       /user/role/{email} [get]
func (h *Handler) GetRole(c *gin.Context) {
	role, err := h.service.RoleOf(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			api.Fail(c, http.StatusNotFound, "User Not Found.")
			return
		}
		api.FailWithError(c, http.StatusInternalServerError, "Failed to fetch role", err)
		return
	}

	c.JSON(http.StatusOK, RoleResponse{Role: role})
}

// ListTrainers godoc
// @Summary      List trainer users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /users/trainers [get]
func (h *Handler) ListTrainers(c *gin.Context) {
	users, err := h.service.ListTrainers(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to fetch trainers", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
