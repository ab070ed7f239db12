package review

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, r *Review) (*Review, error)
	List(ctx context.Context) ([]Review, error)
}

const reviewColumns = `id, booking_id, user_email, user_name, user_photo, rating, feedback, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) (*Review, error) {
	query := `
		INSERT INTO reviews (booking_id, user_email, user_name, user_photo, rating, feedback)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewColumns

	var created Review
	err := r.db.GetContext(ctx, &created, query, rv.BookingID, rv.UserEmail, rv.UserName, rv.UserPhoto, rv.Rating, rv.Feedback)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) List(ctx context.Context) ([]Review, error) {
	reviews := []Review{}
	err := r.db.SelectContext(ctx, &reviews, `SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
