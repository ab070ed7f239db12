package slot

import (
	"time"

	"github.com/lib/pq"
)

type BookedBy struct {
	Email         string    `json:"email"`
	TransactionID string    `json:"transactionId"`
	PaidAt        time.Time `json:"paidAt"`
}

type Slot struct {
	ID           int            `db:"id" json:"id"`
	TrainerID    int            `db:"trainer_id" json:"trainerId"`
	TrainerEmail string         `db:"trainer_email" json:"trainerEmail"`
	TrainerName  string         `db:"trainer_name" json:"trainerName"`
	ClassID      int            `db:"class_id" json:"classId"`
	ClassName    string         `db:"class_name" json:"className"`
	Days         pq.StringArray `db:"days" json:"days" swaggertype:"array,string"`
	SlotName     string         `db:"slot_name" json:"slotName"`
	SlotTime     string         `db:"slot_time" json:"slotTime"`
	OtherInfo    string         `db:"other_info" json:"otherInfo"`
	IsBooked     bool           `db:"is_booked" json:"isBooked"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`

	BookedByEmail       *string    `db:"booked_by_email" json:"-"`
	BookedTransactionID *string    `db:"booked_transaction_id" json:"-"`
	BookedPaidAt        *time.Time `db:"booked_paid_at" json:"-"`
	BookedBy            *BookedBy  `db:"-" json:"bookedBy,omitempty"`
}

func (s *Slot) fillBookedBy() {
	if s.BookedByEmail == nil {
		return
	}
	b := &BookedBy{Email: *s.BookedByEmail}
	if s.BookedTransactionID != nil {
		b.TransactionID = *s.BookedTransactionID
	}
	if s.BookedPaidAt != nil {
		b.PaidAt = *s.BookedPaidAt
	}
	s.BookedBy = b
}

type AddSlotRequest struct {
	SlotName  string   `json:"slotName" binding:"required" example:"Morning Flow"`
	SlotTime  string   `json:"slotTime" binding:"required" example:"07:00-08:00"`
	Days      []string `json:"days" binding:"required,min=1" example:"Mon"`
	ClassID   int      `json:"classId" binding:"required,gt=0" example:"3"`
	OtherInfo string   `json:"otherInfo"`
}

type AvailabilityRequest struct {
	SlotID int `json:"slotId" binding:"required,gt=0" example:"7"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}
