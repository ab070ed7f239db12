package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"fitfolio/internal/api"
	"fitfolio/internal/logger"

	"github.com/gin-gonic/gin"
)

const emailKey = "user_email"

var (
	ErrForbidden = errors.New("forbidden access")
	// ErrNoIdentity is returned by a RoleLookup when no user has the given email.
	ErrNoIdentity = errors.New("identity not found")
)

// RoleLookup resolves the current role of a user from the identity store.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
			c.Abort()
			return
		}

		claims, err := ValidateToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				api.Fail(c, http.StatusUnauthorized, "Token expired")
			} else {
				api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
			}
			c.Abort()
			return
		}

		c.Set(emailKey, claims.Email)
		c.Next()
	}
}

// Authorize checks the caller's role as stored right now. A missing user is forbidden.
func Authorize(ctx context.Context, lookup RoleLookup, email string, allowed ...string) error {
	role, err := lookup.RoleOf(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoIdentity) {
			return ErrForbidden
		}
		return err
	}
	if !slices.Contains(allowed, role) {
		return ErrForbidden
	}
	return nil
}

// RequireRole must run after AuthMiddleware.
func RequireRole(lookup RoleLookup, allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := GetEmail(c)
		if !ok {
			api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
			c.Abort()
			return
		}

		if err := Authorize(c.Request.Context(), lookup, email, allowed...); err != nil {
			if errors.Is(err, ErrForbidden) {
				api.Fail(c, http.StatusForbidden, "forbidden access")
			} else {
				logger.Error("role lookup failed", "email", email, "error", err)
				api.FailWithError(c, http.StatusInternalServerError, "Failed to verify role", err)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get(emailKey)
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	return email, ok && email != ""
}

func SetEmail(c *gin.Context, email string) {
	c.Set(emailKey, email)
}
