package stats

import (
	"context"
	"net/http"

	"fitfolio/internal/api"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type Overview struct {
	SubscriberCount int `json:"subscriberCount" example:"120"`
	MemberCount     int `json:"memberCount" example:"48"`
}

type SubscriberCounter interface {
	Count(ctx context.Context) (int, error)
}

type MemberCounter interface {
	CountPayingMembers(ctx context.Context) (int, error)
}

type Handler struct {
	subscribers SubscriberCounter
	members     MemberCounter
}

func NewHandler(subscribers SubscriberCounter, members MemberCounter) *Handler {
	return &Handler{subscribers: subscribers, members: members}
}

// OverviewCounts runs both counts concurrently.
func OverviewCounts(ctx context.Context, subscribers SubscriberCounter, members MemberCounter) (*Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := subscribers.Count(ctx)
		out.SubscriberCount = n
		return err
	})
	g.Go(func() error {
		n, err := members.CountPayingMembers(ctx)
		out.MemberCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Overview godoc
// @Summary      Admin overview counts
// @Description  Newsletter subscriber count and number of distinct paying members.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Overview
// @Failure      403  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/overview-counts [get]
func (h *Handler) Overview(c *gin.Context) {
	overview, err := OverviewCounts(c.Request.Context(), h.subscribers, h.members)
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to load overview counts", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
