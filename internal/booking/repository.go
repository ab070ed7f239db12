package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitfolio/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrSlotAlreadyBooked    = errors.New("slot is already booked")
	ErrDuplicateTransaction = errors.New("transaction already recorded")
)

const bookingColumns = `id, transaction_id, user_email, paid_at, slot_id, class_id,
	trainer_snapshot, class_snapshot, slot_snapshot, price, created_at`

type Repository interface {
	// Place claims the slot, records the booking and bumps the class counter
	// as one unit. It returns ErrSlotAlreadyBooked without writing anything
	// when the slot has already been claimed.
	Place(ctx context.Context, b *Booking) (*Booking, error)
	FindByID(ctx context.Context, id int) (*Booking, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*Booking, error)
	ListByUser(ctx context.Context, email string) ([]Booking, error)
	Latest(ctx context.Context, limit int) ([]Booking, error)
	TotalRevenue(ctx context.Context) (float64, error)
	CountPayingMembers(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Place(ctx context.Context, b *Booking) (*Booking, error) {
	var created Booking
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE slots
			SET is_booked = TRUE, booked_by_email = $2, booked_transaction_id = $3, booked_paid_at = $4
			WHERE id = $1 AND is_booked = FALSE`,
			b.SlotID, b.UserEmail, b.TransactionID, b.PaidAt)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrSlotAlreadyBooked
		}

		err = tx.GetContext(ctx, &created, `
			INSERT INTO bookings
				(transaction_id, user_email, paid_at, slot_id, class_id, trainer_snapshot, class_snapshot, slot_snapshot, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+bookingColumns,
			b.TransactionID, b.UserEmail, b.PaidAt, b.SlotID, b.ClassID,
			b.TrainerSnapshot, b.ClassSnapshot, b.SlotSnapshot, b.Price)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateTransaction
			}
			return err
		}

		result, err = tx.ExecContext(ctx,
			`UPDATE classes SET booking_count = booking_count + 1 WHERE id = $1`, b.ClassID)
		if err != nil {
			return err
		}
		if n, err = result.RowsAffected(); err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("increment booking count: class %d not found", b.ClassID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *repository) FindByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE transaction_id = $1`, transactionID)
}

func (r *repository) findOne(ctx context.Context, query string, arg interface{}) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, email string) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_email = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) Latest(ctx context.Context, limit int) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(price), 0) FROM bookings`)
	return total, err
}

func (r *repository) CountPayingMembers(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(DISTINCT user_email) FROM bookings`)
	return count, err
}
