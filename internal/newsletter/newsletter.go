package newsletter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fitfolio/internal/api"
	"fitfolio/internal/db"
	"fitfolio/internal/logger"
	"fitfolio/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

var ErrAlreadySubscribed = errors.New("already subscribed")

type Subscriber struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	SubscribedAt time.Time `db:"subscribed_at" json:"subscribedAt"`
}

type SubscribeRequest struct {
	Name  string `json:"name" binding:"required" example:"Riley"`
	Email string `json:"email" binding:"required,email" example:"riley@example.com"`
}

// Welcomer is satisfied by *email.Service.
type Welcomer interface {
	SendNewsletterWelcome(ctx context.Context, to, name string) error
}

type Repository interface {
	Create(ctx context.Context, name, email string) (*Subscriber, error)
	List(ctx context.Context) ([]Subscriber, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email string) (*Subscriber, error) {
	var s Subscriber
	err := r.db.GetContext(ctx, &s, `
		INSERT INTO newsletter_subscribers (name, email)
		VALUES ($1, $2)
		RETURNING id, email, name, subscribed_at`, name, email)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]Subscriber, error) {
	subs := []Subscriber{}
	err := r.db.SelectContext(ctx, &subs, `SELECT id, email, name, subscribed_at FROM newsletter_subscribers ORDER BY subscribed_at`)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM newsletter_subscribers`)
	return n, err
}

type Handler struct {
	repo     Repository
	welcomer Welcomer
}

func NewHandler(repo Repository, welcomer Welcomer) *Handler {
	return &Handler{repo: repo, welcomer: welcomer}
}

// Subscribe godoc
// @Summary      Subscribe to the newsletter
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        request  body      SubscribeRequest  true  "Subscriber"
// @Success      201      {object}  api.MessageResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /newsletter/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if !api.BindJSON(c, &req, "Name and Email are required.") {
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		api.Fail(c, http.StatusBadRequest, "Name and Email are required.")
		return
	}

	sub, err := h.repo.Create(c.Request.Context(), name, email)
	if err != nil {
		if errors.Is(err, ErrAlreadySubscribed) {
			api.Fail(c, http.StatusConflict, "You are already subscribed.")
			return
		}
		logger.Error("newsletter subscribe failed", "email", email, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	metrics.RecordNewsletterSubscription()
	if err := h.welcomer.SendNewsletterWelcome(c.Request.Context(), sub.Email, sub.Name); err != nil {
		logger.Warn("failed to queue newsletter welcome", "email", sub.Email, "error", err)
	}

	c.JSON(http.StatusCreated, api.MessageResponse{Message: "Subscription successful!"})
}

// ListAll godoc
// @Summary      List newsletter subscribers
// @Tags         newsletter
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Subscriber
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /newsletter/all [get]
func (h *Handler) ListAll(c *gin.Context) {
	subs, err := h.repo.List(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to fetch subscribers", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}
