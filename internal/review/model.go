package review

import "time"

type Review struct {
	ID        int       `db:"id" json:"id"`
	BookingID int       `db:"booking_id" json:"bookingId"`
	UserEmail string    `db:"user_email" json:"userEmail"`
	UserName  string    `db:"user_name" json:"userName"`
	UserPhoto string    `db:"user_photo" json:"userPhoto"`
	Rating    int       `db:"rating" json:"rating"`
	Feedback  string    `db:"feedback" json:"feedback"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateReviewRequest struct {
	BookingID int    `json:"bookingId" binding:"required,gt=0" example:"41"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Feedback  string `json:"feedback" binding:"required" example:"Great session!"`
	UserName  string `json:"userName" example:"Sam"`
	UserPhoto string `json:"userPhoto" example:"https://i.ibb.co/x/sam.png"`
}
