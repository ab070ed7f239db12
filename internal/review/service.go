package review

import (
	"context"
	"strings"

	"fitfolio/internal/booking"
	"fitfolio/internal/logger"
)

type BookingFinder interface {
	FindByID(ctx context.Context, id int) (*booking.Booking, error)
}

type Service interface {
	Create(ctx context.Context, reviewer string, req CreateReviewRequest) (*Review, error)
	List(ctx context.Context) ([]Review, error)
}

type service struct {
	repo     Repository
	bookings BookingFinder
}

func NewService(repo Repository, bookings BookingFinder) Service {
	return &service{repo: repo, bookings: bookings}
}

func (s *service) Create(ctx context.Context, reviewer string, req CreateReviewRequest) (*Review, error) {
	if _, err := s.bookings.FindByID(ctx, req.BookingID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Review{
		BookingID: req.BookingID,
		UserEmail: strings.ToLower(reviewer),
		UserName:  strings.TrimSpace(req.UserName),
		UserPhoto: req.UserPhoto,
		Rating:    req.Rating,
		Feedback:  strings.TrimSpace(req.Feedback),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("review submitted", "id", created.ID, "booking_id", created.BookingID)
	return created, nil
}

func (s *service) List(ctx context.Context) ([]Review, error) {
	return s.repo.List(ctx)
}
