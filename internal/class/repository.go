package class

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrClassNotFound = errors.New("class not found")

const classColumns = `id, name, image, details, extra_info, booking_count, created_at`

type Repository interface {
	Create(ctx context.Context, req CreateClassRequest) (*Class, error)
	FindByID(ctx context.Context, id int) (*Class, error)
	List(ctx context.Context) ([]Class, error)
	TopByBookings(ctx context.Context, limit int) ([]Class, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateClassRequest) (*Class, error) {
	query := `
		INSERT INTO classes (name, image, details, extra_info, booking_count)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING ` + classColumns

	var c Class
	if err := r.db.GetContext(ctx, &c, query, req.Name, req.Image, req.Details, req.ExtraInfo); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Class, error) {
	var c Class
	err := r.db.GetContext(ctx, &c, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Class, error) {
	classes := []Class{}
	if err := r.db.SelectContext(ctx, &classes, `SELECT `+classColumns+` FROM classes ORDER BY id`); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) TopByBookings(ctx context.Context, limit int) ([]Class, error) {
	classes := []Class{}
	err := r.db.SelectContext(ctx, &classes,
		`SELECT `+classColumns+` FROM classes ORDER BY booking_count DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return classes, nil
}
