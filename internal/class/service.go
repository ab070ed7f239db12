package class

import (
	"context"
	"strings"

	"fitfolio/internal/logger"
)

const featuredLimit = 6

type Service interface {
	Create(ctx context.Context, req CreateClassRequest) (*Class, error)
	Get(ctx context.Context, id int) (*Class, error)
	List(ctx context.Context) ([]Class, error)
	Featured(ctx context.Context) ([]Class, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateClassRequest) (*Class, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Details = strings.TrimSpace(req.Details)

	c, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("class created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *service) Get(ctx context.Context, id int) (*Class, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Class, error) {
	return s.repo.List(ctx)
}

func (s *service) Featured(ctx context.Context) ([]Class, error) {
	return s.repo.TopByBookings(ctx, featuredLimit)
}
