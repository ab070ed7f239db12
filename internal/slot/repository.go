package slot

import (
	"context"
	"database/sql"
	"errors"

	"fitfolio/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotBooked   = errors.New("cannot delete a booked slot")
	ErrNotOwner     = errors.New("you can only delete your own slots")
)

const slotColumns = `id, trainer_id, trainer_email, trainer_name, class_id, class_name, days, slot_name, slot_time,
	other_info, is_booked, booked_by_email, booked_transaction_id, booked_paid_at, created_at`

type Repository interface {
	// Create inserts the slot and its reference in the trainer's slot list atomically.
	Create(ctx context.Context, s *Slot) (*Slot, error)
	FindByID(ctx context.Context, id int) (*Slot, error)
	// Delete removes the slot only while it is unbooked and owned by trainerEmail.
	Delete(ctx context.Context, id int, trainerEmail string) (bool, error)
	ListByTrainer(ctx context.Context, trainerEmail string, onlyAvailable bool) ([]Slot, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Slot) (*Slot, error) {
	var created Slot
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &created, `
			INSERT INTO slots
				(trainer_id, trainer_email, trainer_name, class_id, class_name, days, slot_name, slot_time, other_info, is_booked)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE)
			RETURNING `+slotColumns,
			s.TrainerID, s.TrainerEmail, s.TrainerName, s.ClassID, s.ClassName, s.Days, s.SlotName, s.SlotTime, s.OtherInfo,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO trainer_slots (trainer_id, slot_id) VALUES ($1, $2)`, created.TrainerID, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Slot, error) {
	var s Slot
	err := r.db.GetContext(ctx, &s, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	s.fillBookedBy()
	return &s, nil
}

func (r *repository) Delete(ctx context.Context, id int, trainerEmail string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM slots WHERE id = $1 AND trainer_email = $2 AND is_booked = FALSE`, id, trainerEmail)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *repository) ListByTrainer(ctx context.Context, trainerEmail string, onlyAvailable bool) ([]Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE trainer_email = $1`
	if onlyAvailable {
		query += ` AND is_booked = FALSE`
	}
	query += ` ORDER BY id`

	slots := []Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, trainerEmail); err != nil {
		return nil, err
	}
	for i := range slots {
		slots[i].fillBookedBy()
	}
	return slots, nil
}
