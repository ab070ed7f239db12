package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"fitfolio/internal/class"
	"fitfolio/internal/logger"
	"fitfolio/internal/metrics"
	"fitfolio/internal/slot"
	"fitfolio/internal/trainer"
)

const summaryLimit = 6

var (
	ErrOrderMismatch       = errors.New("slot does not belong to the given trainer and class")
	ErrTransactionConflict = errors.New("transaction id already used for a different order")
)

type TrainerFinder interface {
	FindByID(ctx context.Context, id int) (*trainer.Trainer, error)
}

type ClassFinder interface {
	FindByID(ctx context.Context, id int) (*class.Class, error)
}

type SlotFinder interface {
	FindByID(ctx context.Context, id int) (*slot.Slot, error)
}

// Notifier is satisfied by *email.Service.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, className, trainerName, slotName, slotTime string, days []string, paidAt time.Time) error
}

type Service interface {
	// PlaceBooking returns the stored booking and whether it was a replay of
	// an earlier order with the same transaction id.
	PlaceBooking(ctx context.Context, userEmail string, req OrderRequest) (*Booking, bool, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	UserBookings(ctx context.Context, userEmail string) ([]Booking, error)
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo     Repository
	trainers TrainerFinder
	classes  ClassFinder
	slots    SlotFinder
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, trainers TrainerFinder, classes ClassFinder, slots SlotFinder, notifier Notifier) Service {
	return &service{
		repo:     repo,
		trainers: trainers,
		classes:  classes,
		slots:    slots,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) PlaceBooking(ctx context.Context, userEmail string, req OrderRequest) (*Booking, bool, error) {
	userEmail = strings.ToLower(userEmail)

	if existing, ok, err := s.replay(ctx, userEmail, req); err != nil || ok {
		return existing, ok, err
	}

	t, err := s.trainers.FindByID(ctx, req.TrainerID)
	if err != nil {
		return nil, false, err
	}
	c, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		return nil, false, err
	}
	sl, err := s.slots.FindByID(ctx, req.SlotID)
	if err != nil {
		return nil, false, err
	}

	if sl.TrainerID != t.ID || sl.ClassID != c.ID {
		return nil, false, ErrOrderMismatch
	}
	if sl.IsBooked {
		metrics.RecordBooking("conflict")
		return nil, false, ErrSlotAlreadyBooked
	}

	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}
	paidAt = paidAt.UTC()

	b := &Booking{
		TransactionID: req.TransactionID,
		UserEmail:     userEmail,
		PaidAt:        paidAt,
		SlotID:        sl.ID,
		ClassID:       c.ID,
		Price:         req.Price,
	}
	if b.TrainerSnapshot, err = json.Marshal(t); err != nil {
		return nil, false, err
	}
	if b.ClassSnapshot, err = json.Marshal(c); err != nil {
		return nil, false, err
	}
	// The snapshot records the slot as this booking leaves it.
	booked := *sl
	booked.IsBooked = true
	booked.BookedBy = &slot.BookedBy{Email: userEmail, TransactionID: req.TransactionID, PaidAt: paidAt}
	if b.SlotSnapshot, err = json.Marshal(booked); err != nil {
		return nil, false, err
	}

	created, err := s.repo.Place(ctx, b)
	if err != nil {
		if errors.Is(err, ErrSlotAlreadyBooked) || errors.Is(err, ErrDuplicateTransaction) {
			// a concurrent retry of this same order may have won the slot
			if existing, ok, rerr := s.replay(ctx, userEmail, req); rerr == nil && ok {
				return existing, true, nil
			}
			metrics.RecordBooking("conflict")
			logger.Warn("booking conflict", "slot_id", req.SlotID, "transaction_id", req.TransactionID, "error", err)
		} else {
			metrics.RecordBooking("failed")
		}
		return nil, false, err
	}

	metrics.RecordBooking("placed")
	logger.Info("booking placed", "id", created.ID, "slot_id", created.SlotID, "user", userEmail)

	if err := s.notifier.SendBookingConfirmation(ctx, userEmail, c.Name, t.FullName, sl.SlotName, sl.SlotTime, sl.Days, paidAt); err != nil {
		logger.Warn("failed to queue booking confirmation", "booking_id", created.ID, "error", err)
	}

	return created, false, nil
}

// replay looks up an earlier booking with the same transaction id. A match
// for a different user or slot is a conflict.
func (s *service) replay(ctx context.Context, userEmail string, req OrderRequest) (*Booking, bool, error) {
	existing, err := s.repo.FindByTransactionID(ctx, req.TransactionID)
	if errors.Is(err, ErrBookingNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if existing.UserEmail != userEmail || existing.SlotID != req.SlotID {
		return nil, false, ErrTransactionConflict
	}
	metrics.RecordBooking("replayed")
	return existing, true, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Booking, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UserBookings(ctx context.Context, userEmail string) ([]Booking, error) {
	return s.repo.ListByUser(ctx, strings.ToLower(userEmail))
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	total, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.repo.Latest(ctx, summaryLimit)
	if err != nil {
		return nil, err
	}

	return &Summary{TotalBalance: total, LastSixTransactions: latest}, nil
}
