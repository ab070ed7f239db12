package api

import "github.com/gin-gonic/gin"

// ErrorResponse is the uniform failure body.
type ErrorResponse struct {
	Message string `json:"message" example:"Slot not found"`
	Error   string `json:"error,omitempty" example:"sql: no rows in result set"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type InsertedResponse struct {
	Message    string `json:"message" example:"Class created successfully"`
	InsertedID int    `json:"insertedId" example:"12"`
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Message: message})
}

// FailWithError surfaces err's text alongside message; used for 5xx responses.
func FailWithError(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}
