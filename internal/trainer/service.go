package trainer

import (
	"context"
	"strings"

	"fitfolio/internal/logger"
	"fitfolio/internal/metrics"
)

const (
	featuredLimit = 3
	byClassLimit  = 5
)

// Notifier is satisfied by *email.Service.
type Notifier interface {
	SendTrainerApproved(ctx context.Context, to, name string) error
	SendTrainerRejected(ctx context.Context, to, name, feedback string) error
}

type Service interface {
	Apply(ctx context.Context, email string, req ApplyRequest) (*Application, error)
	PendingApplications(ctx context.Context) ([]Application, error)
	ActivityLog(ctx context.Context) ([]Application, error)
	Approve(ctx context.Context, applicationID int) (*Application, error)
	Reject(ctx context.Context, applicationID int, feedback string) (*Application, error)
	Demote(ctx context.Context, userID int) error

	Approved(ctx context.Context) ([]Trainer, error)
	Featured(ctx context.Context) ([]Trainer, error)
	ByClass(ctx context.Context, className string) ([]Summary, error)
	GetByID(ctx context.Context, id int) (*Trainer, error)
	GetByEmail(ctx context.Context, email string) (*Trainer, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) Apply(ctx context.Context, email string, req ApplyRequest) (*Application, error) {
	app, err := s.repo.CreateApplication(ctx, &Application{
		Email:         strings.ToLower(email),
		FullName:      strings.TrimSpace(req.FullName),
		Skills:        req.Skills,
		AvailableDays: req.AvailableDays,
		AvailableTime: req.AvailableTime,
		Age:           req.Age,
		Experience:    req.Experience,
		ProfileImage:  req.ProfileImage,
		OtherInfo:     req.OtherInfo,
		Facebook:      req.Facebook,
		Linkedin:      req.Linkedin,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTrainerApplication(StatusPending)
	logger.Info("trainer application submitted", "id", app.ID, "email", app.Email)
	return app, nil
}

func (s *service) PendingApplications(ctx context.Context) ([]Application, error) {
	return s.repo.PendingApplications(ctx)
}

func (s *service) ActivityLog(ctx context.Context) ([]Application, error) {
	return s.repo.ActivityLog(ctx)
}

func (s *service) Approve(ctx context.Context, applicationID int) (*Application, error) {
	app, created, err := s.repo.Approve(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	metrics.RecordTrainerApplication(StatusApproved)
	logger.Info("trainer application approved", "id", app.ID, "email", app.Email, "trainer_created", created)

	if err := s.notifier.SendTrainerApproved(ctx, app.Email, app.FullName); err != nil {
		logger.Warn("failed to queue approval email", "email", app.Email, "error", err)
	}
	return app, nil
}

func (s *service) Reject(ctx context.Context, applicationID int, feedback string) (*Application, error) {
	app, err := s.repo.Reject(ctx, applicationID, strings.TrimSpace(feedback))
	if err != nil {
		return nil, err
	}

	metrics.RecordTrainerApplication(StatusRejected)
	logger.Info("trainer application rejected", "id", app.ID, "email", app.Email)

	if err := s.notifier.SendTrainerRejected(ctx, app.Email, app.FullName, strings.TrimSpace(feedback)); err != nil {
		logger.Warn("failed to queue rejection email", "email", app.Email, "error", err)
	}
	return app, nil
}

func (s *service) Demote(ctx context.Context, userID int) error {
	email, err := s.repo.Demote(ctx, userID)
	if err != nil {
		return err
	}

	metrics.RecordTrainerApplication("demoted")
	logger.Info("trainer demoted", "user_id", userID, "email", email)
	return nil
}

func (s *service) Approved(ctx context.Context) ([]Trainer, error) {
	return s.repo.Approved(ctx, 0)
}

func (s *service) Featured(ctx context.Context) ([]Trainer, error) {
	return s.repo.Approved(ctx, featuredLimit)
}

func (s *service) ByClass(ctx context.Context, className string) ([]Summary, error) {
	return s.repo.ByClass(ctx, className, byClassLimit)
}

func (s *service) GetByID(ctx context.Context, id int) (*Trainer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*Trainer, error) {
	return s.repo.FindByEmail(ctx, strings.ToLower(email))
}
