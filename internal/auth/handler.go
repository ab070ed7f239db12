package auth

import (
	"net/http"

	"fitfolio/internal/api"

	"github.com/gin-gonic/gin"
)

type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type TokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message" example:"jwt created successfully"`
}

type Handler struct {
	secret string
}

func NewHandler(secret string) *Handler {
	return &Handler{secret: secret}
}

// IssueToken godoc
// @Summary      Issue access token
// @Description  Signs a 7 day bearer token for the given email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      TokenRequest  true  "Email"
// @Success      200      {object}  TokenResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /jwt [post]
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if !api.BindJSON(c, &req, "Email is required") {
		return
	}

	token, err := GenerateToken(req.Email, h.secret)
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to create token", err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, Message: "jwt created successfully"})
}
