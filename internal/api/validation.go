package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field" example:"SlotName"`
	Tag     string `json:"tag" example:"required"`
	Message string `json:"message" example:"SlotName is required"`
}

type ValidationErrorResponse struct {
	Message string       `json:"message" example:"Missing required fields."`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// BindJSON binds the body into obj. On failure it writes a 400 with message
// and per-field details and returns false.
func BindJSON(c *gin.Context, obj interface{}, message string) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Message: message,
		Error:   err.Error(),
		Details: FieldErrors(err),
	})
	return false
}

func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// ParseID reads a positive integer path parameter, answering 400 otherwise.
func ParseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		Fail(c, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}
