package user

import (
	"context"
	"strings"

	"fitfolio/internal/logger"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, bool, error)
	RoleOf(ctx context.Context, email string) (string, error)
	ListTrainers(ctx context.Context) ([]User, error)
	SetRole(ctx context.Context, email, role string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, bool, error) {
	email := NormalizeEmail(req.Email)

	u, created, err := s.repo.Upsert(ctx, strings.TrimSpace(req.Name), email, req.PhotoURL)
	if err != nil {
		return nil, false, err
	}

	if created {
		logger.Info("user registered", "email", email, "id", u.ID)
	} else {
		logger.Debug("user login refreshed", "email", email)
	}
	return u, created, nil
}

// RoleOf implements auth.RoleLookup.
func (s *service) RoleOf(ctx context.Context, email string) (string, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *service) ListTrainers(ctx context.Context) ([]User, error) {
	return s.repo.ListByRole(ctx, RoleTrainer)
}

func (s *service) SetRole(ctx context.Context, email, role string) error {
	return s.repo.SetRole(ctx, NormalizeEmail(email), role)
}
