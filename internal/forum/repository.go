package forum

import (
	"context"
	"database/sql"
	"errors"

	"fitfolio/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPostNotFound = errors.New("forum post not found")
	ErrAlreadyVoted = errors.New("you already voted this way")
	// ErrVoteConflict means another request changed this voter's row between read and write.
	ErrVoteConflict = errors.New("vote changed concurrently")
)

const postColumns = `id, title, image, category, description, author_email, up_votes, down_votes, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Post) (*Post, error) {
	query := `
		INSERT INTO forum_posts (title, image, category, description, author_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + postColumns

	var created Post
	if err := r.db.GetContext(ctx, &created, query, p.Title, p.Image, p.Category, p.Description, p.AuthorEmail); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p, `SELECT `+postColumns+` FROM forum_posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Voters(ctx context.Context, postID int) (map[string]int, error) {
	var rows []struct {
		Email string `db:"voter_email"`
		Value int    `db:"value"`
	}
	err := r.db.SelectContext(ctx, &rows, `SELECT voter_email, value FROM forum_votes WHERE post_id = $1`, postID)
	if err != nil {
		return nil, err
	}

	voters := make(map[string]int, len(rows))
	for _, row := range rows {
		voters[row.Email] = row.Value
	}
	return voters, nil
}

func (r *repository) Latest(ctx context.Context, limit int) ([]Teaser, error) {
	posts := []Teaser{}
	err := r.db.SelectContext(ctx, &posts, `
		SELECT id, title, image, category, description, created_at
		FROM forum_posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Vote changes the voter row and the counters in one transaction. The voter
// row write is conditional on the value read, so two racing votes from the
// same user cannot both adjust the counters.
func (r *repository) Vote(ctx context.Context, postID int, voter string, value int) (int, error) {
	var previous int

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &previous,
			`SELECT value FROM forum_votes WHERE post_id = $1 AND voter_email = $2`, postID, voter)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if previous == value {
			return ErrAlreadyVoted
		}

		var result sql.Result
		if previous == 0 {
			result, err = tx.ExecContext(ctx, `
				INSERT INTO forum_votes (post_id, voter_email, value)
				VALUES ($1, $2, $3)
				ON CONFLICT (post_id, voter_email) DO NOTHING`, postID, voter, value)
		} else {
			result, err = tx.ExecContext(ctx, `
				UPDATE forum_votes SET value = $3, updated_at = NOW()
				WHERE post_id = $1 AND voter_email = $2 AND value = $4`, postID, voter, value, previous)
		}
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrVoteConflict
		}

		up, down := counterDelta(previous, value)
		result, err = tx.ExecContext(ctx,
			`UPDATE forum_posts SET up_votes = up_votes + $2, down_votes = down_votes + $3 WHERE id = $1`,
			postID, up, down)
		if err != nil {
			return err
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrPostNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return previous, nil
}

func counterDelta(previous, value int) (up, down int) {
	switch {
	case previous == 0 && value == VoteUp:
		return 1, 0
	case previous == 0:
		return 0, 1
	case value == VoteUp:
		return 1, -1
	default:
		return -1, 1
	}
}
