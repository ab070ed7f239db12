package booking

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Booking is immutable once written. The snapshots freeze the trainer, class
// and slot as they were at purchase time.
type Booking struct {
	ID              int            `db:"id" json:"id"`
	TransactionID   string         `db:"transaction_id" json:"transactionId"`
	UserEmail       string         `db:"user_email" json:"userEmail"`
	PaidAt          time.Time      `db:"paid_at" json:"paidAt"`
	SlotID          int            `db:"slot_id" json:"slotId"`
	ClassID         int            `db:"class_id" json:"classId"`
	TrainerSnapshot types.JSONText `db:"trainer_snapshot" json:"trainer" swaggertype:"object"`
	ClassSnapshot   types.JSONText `db:"class_snapshot" json:"class" swaggertype:"object"`
	SlotSnapshot    types.JSONText `db:"slot_snapshot" json:"slot" swaggertype:"object"`
	Price           float64        `db:"price" json:"price"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}

type OrderRequest struct {
	TransactionID string    `json:"transactionId" binding:"required" example:"pi_3PQx..."`
	TrainerID     int       `json:"trainerId" binding:"required,gt=0" example:"3"`
	ClassID       int       `json:"classId" binding:"required,gt=0" example:"2"`
	SlotID        int       `json:"slotId" binding:"required,gt=0" example:"10"`
	Price         float64   `json:"price" binding:"gte=0" example:"25"`
	PaidAt        time.Time `json:"paidAt" example:"2024-05-01T10:00:00Z"`
}

type OrderResponse struct {
	Message    string `json:"message" example:"Order placed and class/slot updated successfully"`
	InsertedID int    `json:"insertedId" example:"41"`
}

type Summary struct {
	TotalBalance        float64   `json:"totalBalance" example:"240.5"`
	LastSixTransactions []Booking `json:"lastSixTransactions"`
}
