package user

import "context"

type Repository interface {
	// Upsert inserts a member or refreshes last_login_at of an existing user.
	// created reports whether a new row was written.
	Upsert(ctx context.Context, name, email, photoURL string) (u *User, created bool, err error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
	SetRole(ctx context.Context, email, role string) error
}
