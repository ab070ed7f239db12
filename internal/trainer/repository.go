package trainer

import (
	"context"
	"database/sql"
	"errors"

	"fitfolio/internal/db"
	"fitfolio/internal/user"

	"github.com/jmoiron/sqlx"
)

var (
	ErrAlreadyApplied      = errors.New("already applied")
	ErrApplicationNotFound = errors.New("application not found or already rejected")
	ErrTrainerNotFound     = errors.New("trainer not found")
)

const applicationColumns = `id, email, full_name, skills, available_days, available_time, age, experience,
	profile_image, other_info, facebook, linkedin, status, applied_at, rejected_at, feedback`

const trainerColumns = `t.id, t.email, t.full_name, t.skills, t.available_days, t.available_time, t.age, t.experience,
	t.profile_image, t.other_info, t.facebook, t.linkedin, t.status, t.applied_at, t.created_at,
	COALESCE((SELECT array_agg(ts.slot_id ORDER BY ts.slot_id) FROM trainer_slots ts WHERE ts.trainer_id = t.id), '{}') AS slot_ids`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateApplication(ctx context.Context, app *Application) (*Application, error) {
	query := `
		INSERT INTO trainer_applications
			(email, full_name, skills, available_days, available_time, age, experience,
			 profile_image, other_info, facebook, linkedin, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending')
		RETURNING ` + applicationColumns

	var created Application
	err := r.db.GetContext(ctx, &created, query,
		app.Email, app.FullName, app.Skills, app.AvailableDays, app.AvailableTime, app.Age, app.Experience,
		app.ProfileImage, app.OtherInfo, app.Facebook, app.Linkedin,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) PendingApplications(ctx context.Context) ([]Application, error) {
	apps := []Application{}
	err := r.db.SelectContext(ctx, &apps,
		`SELECT `+applicationColumns+` FROM trainer_applications WHERE status = 'pending' ORDER BY applied_at`)
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// ActivityLog lists pending applications first, then rejected ones.
func (r *repository) ActivityLog(ctx context.Context) ([]Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM trainer_applications
		WHERE status IN ('pending', 'rejected')
		ORDER BY CASE status WHEN 'pending' THEN 0 ELSE 1 END, id
	`
	apps := []Application{}
	if err := r.db.SelectContext(ctx, &apps, query); err != nil {
		return nil, err
	}
	return apps, nil
}

// Approve flips the application, promotes the user and creates the trainer
// projection in one transaction. The projection insert is a no-op when a
// trainer with that email already exists. A rejected application is final
// and reports ErrApplicationNotFound.
func (r *repository) Approve(ctx context.Context, applicationID int) (*Application, bool, error) {
	var app Application
	var created bool

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &app,
			`UPDATE trainer_applications SET status = 'approved' WHERE id = $1 AND status IN ('pending', 'approved') RETURNING `+applicationColumns,
			applicationID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrApplicationNotFound
		}
		if err != nil {
			return err
		}

		if err := user.SetRole(ctx, tx, app.Email, user.RoleTrainer); err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO trainers
				(email, full_name, skills, available_days, available_time, age, experience,
				 profile_image, other_info, facebook, linkedin, status, applied_at)
			SELECT email, full_name, skills, available_days, available_time, age, experience,
				profile_image, other_info, facebook, linkedin, 'approved', applied_at
			FROM trainer_applications WHERE id = $1
			ON CONFLICT (email) DO NOTHING`, applicationID)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		created = n == 1
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &app, created, nil
}

// Reject only moves pending applications.
func (r *repository) Reject(ctx context.Context, applicationID int, feedback string) (*Application, error) {
	query := `
		UPDATE trainer_applications
		SET status = 'rejected', feedback = $2, rejected_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + applicationColumns

	var app Application
	err := r.db.GetContext(ctx, &app, query, applicationID, feedback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Demote resets the user's role and removes their application. The trainer
// projection and its slots are left in place.
func (r *repository) Demote(ctx context.Context, userID int) (string, error) {
	var email string
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &email,
			`UPDATE users SET role = 'member' WHERE id = $1 RETURNING email`, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return user.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM trainer_applications WHERE email = $1`, email)
		return err
	})
	if err != nil {
		return "", err
	}
	return email, nil
}

// Approved returns approved trainers; limit <= 0 means all of them.
func (r *repository) Approved(ctx context.Context, limit int) ([]Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM trainers t WHERE t.status = 'approved' ORDER BY t.id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	trainers := []Trainer{}
	if err := r.db.SelectContext(ctx, &trainers, query, args...); err != nil {
		return nil, err
	}
	for i := range trainers {
		trainers[i].fillSlots()
	}
	return trainers, nil
}

func (r *repository) ByClass(ctx context.Context, className string, limit int) ([]Summary, error) {
	query := `
		SELECT id, full_name, profile_image
		FROM trainers
		WHERE status = 'approved' AND $1 = ANY(skills)
		ORDER BY id
		LIMIT $2
	`
	trainers := []Summary{}
	if err := r.db.SelectContext(ctx, &trainers, query, className, limit); err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Trainer, error) {
	return r.findOne(ctx, `SELECT `+trainerColumns+` FROM trainers t WHERE t.id = $1`, id)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Trainer, error) {
	return r.findOne(ctx, `SELECT `+trainerColumns+` FROM trainers t WHERE t.email = $1`, email)
}

func (r *repository) findOne(ctx context.Context, query string, arg interface{}) (*Trainer, error) {
	var t Trainer
	err := r.db.GetContext(ctx, &t, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}
	t.fillSlots()
	return &t, nil
}
