package user

import "time"

const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

type User struct {
	ID          int       `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	Name        string    `db:"name" json:"name"`
	PhotoURL    string    `db:"photo_url" json:"photoURL"`
	Role        string    `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	LastLoginAt time.Time `db:"last_login_at" json:"lastLoginAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	PhotoURL string `json:"photoURL" example:"https://example.com/jane.png"`
}

type RegisterResponse struct {
	Message string `json:"message" example:"User registered"`
	User    User   `json:"user"`
}

type RoleResponse struct {
	Role string `json:"role" example:"member"`
}
