package slot

import (
	"context"
	"strings"

	"fitfolio/internal/class"
	"fitfolio/internal/logger"
	"fitfolio/internal/metrics"
	"fitfolio/internal/trainer"
)

type TrainerFinder interface {
	FindByEmail(ctx context.Context, email string) (*trainer.Trainer, error)
}

type ClassFinder interface {
	FindByID(ctx context.Context, id int) (*class.Class, error)
}

type Service interface {
	Add(ctx context.Context, trainerEmail string, req AddSlotRequest) (*Slot, error)
	Get(ctx context.Context, id int) (*Slot, error)
	IsAvailable(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int, callerEmail string) error
	ListAvailable(ctx context.Context, trainerEmail string) ([]Slot, error)
	ListAll(ctx context.Context, trainerEmail string) ([]Slot, error)
}

type service struct {
	repo     Repository
	trainers TrainerFinder
	classes  ClassFinder
}

func NewService(repo Repository, trainers TrainerFinder, classes ClassFinder) Service {
	return &service{repo: repo, trainers: trainers, classes: classes}
}

func (s *service) Add(ctx context.Context, trainerEmail string, req AddSlotRequest) (*Slot, error) {
	t, err := s.trainers.FindByEmail(ctx, strings.ToLower(trainerEmail))
	if err != nil {
		return nil, err
	}

	c, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Slot{
		TrainerID:    t.ID,
		TrainerEmail: t.Email,
		TrainerName:  t.FullName,
		ClassID:      c.ID,
		ClassName:    c.Name,
		Days:         req.Days,
		SlotName:     strings.TrimSpace(req.SlotName),
		SlotTime:     strings.TrimSpace(req.SlotTime),
		OtherInfo:    req.OtherInfo,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSlotCreated()
	logger.Info("slot created", "id", created.ID, "trainer", t.Email, "class_id", c.ID)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int) (*Slot, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) IsAvailable(ctx context.Context, id int) (bool, error) {
	sl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return !sl.IsBooked, nil
}

func (s *service) Delete(ctx context.Context, id int, callerEmail string) error {
	sl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	callerEmail = strings.ToLower(callerEmail)
	if sl.TrainerEmail != callerEmail {
		return ErrNotOwner
	}
	if sl.IsBooked {
		return ErrSlotBooked
	}

	deleted, err := s.repo.Delete(ctx, id, callerEmail)
	if err != nil {
		return err
	}
	if !deleted {
		// booked between the read and the delete
		return ErrSlotBooked
	}

	logger.Info("slot deleted", "id", id, "trainer", callerEmail)
	return nil
}

func (s *service) ListAvailable(ctx context.Context, trainerEmail string) ([]Slot, error) {
	return s.repo.ListByTrainer(ctx, strings.ToLower(trainerEmail), true)
}

func (s *service) ListAll(ctx context.Context, trainerEmail string) ([]Slot, error) {
	return s.repo.ListByTrainer(ctx, strings.ToLower(trainerEmail), false)
}
