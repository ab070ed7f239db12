package class

import "time"

type Class struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Image        string    `db:"image" json:"image"`
	Details      string    `db:"details" json:"details"`
	ExtraInfo    string    `db:"extra_info" json:"extraInfo"`
	BookingCount int       `db:"booking_count" json:"bookingCount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateClassRequest struct {
	Name      string `json:"name" binding:"required" example:"Power Yoga"`
	Image     string `json:"image" binding:"required" example:"https://example.com/yoga.png"`
	Details   string `json:"details" binding:"required" example:"Sixty minute vinyasa flow"`
	ExtraInfo string `json:"extraInfo" example:"Bring a mat"`
}
