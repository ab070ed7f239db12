package trainer

import (
	"time"

	"github.com/lib/pq"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Application struct {
	ID            int            `db:"id" json:"id"`
	Email         string         `db:"email" json:"email"`
	FullName      string         `db:"full_name" json:"fullName"`
	Skills        pq.StringArray `db:"skills" json:"skills" swaggertype:"array,string"`
	AvailableDays pq.StringArray `db:"available_days" json:"availableDays" swaggertype:"array,string"`
	AvailableTime string         `db:"available_time" json:"availableTime"`
	Age           int            `db:"age" json:"age"`
	Experience    int            `db:"experience" json:"experience"`
	ProfileImage  string         `db:"profile_image" json:"profileImage"`
	OtherInfo     string         `db:"other_info" json:"otherInfo"`
	Facebook      string         `db:"facebook" json:"facebook"`
	Linkedin      string         `db:"linkedin" json:"linkedin"`
	Status        string         `db:"status" json:"status"`
	AppliedAt     time.Time      `db:"applied_at" json:"appliedAt"`
	RejectedAt    *time.Time     `db:"rejected_at" json:"rejectedAt,omitempty"`
	Feedback      *string        `db:"feedback" json:"feedback,omitempty"`
}

type SlotRef struct {
	SlotID int64 `json:"slotId"`
}

// Trainer is the public projection built from an approved application.
type Trainer struct {
	ID            int            `db:"id" json:"id"`
	Email         string         `db:"email" json:"email"`
	FullName      string         `db:"full_name" json:"fullName"`
	Skills        pq.StringArray `db:"skills" json:"skills" swaggertype:"array,string"`
	AvailableDays pq.StringArray `db:"available_days" json:"availableDays" swaggertype:"array,string"`
	AvailableTime string         `db:"available_time" json:"availableTime"`
	Age           int            `db:"age" json:"age"`
	Experience    int            `db:"experience" json:"experience"`
	ProfileImage  string         `db:"profile_image" json:"profileImage"`
	OtherInfo     string         `db:"other_info" json:"otherInfo"`
	Facebook      string         `db:"facebook" json:"facebook"`
	Linkedin      string         `db:"linkedin" json:"linkedin"`
	Status        string         `db:"status" json:"status"`
	AppliedAt     time.Time      `db:"applied_at" json:"appliedAt"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	SlotIDs       pq.Int64Array  `db:"slot_ids" json:"-"`
	Slots         []SlotRef      `db:"-" json:"slots"`
}

type Summary struct {
	ID           int    `db:"id" json:"id"`
	FullName     string `db:"full_name" json:"fullName"`
	ProfileImage string `db:"profile_image" json:"profileImage"`
}

type ApplyRequest struct {
	FullName      string   `json:"fullName" binding:"required" example:"Jane Doe"`
	Skills        []string `json:"skills" binding:"required,min=1" example:"Yoga"`
	AvailableDays []string `json:"availableDays" binding:"required,min=1" example:"Mon"`
	AvailableTime string   `json:"availableTime" example:"07:00-10:00"`
	Age           int      `json:"age" binding:"omitempty,min=16,max=100" example:"29"`
	Experience    int      `json:"experience" binding:"omitempty,min=0" example:"4"`
	ProfileImage  string   `json:"profileImage"`
	OtherInfo     string   `json:"otherInfo"`
	Facebook      string   `json:"facebook"`
	Linkedin      string   `json:"linkedin"`
}

type RejectRequest struct {
	Feedback string `json:"feedback" example:"Please add certifications"`
}

func (t *Trainer) fillSlots() {
	t.Slots = make([]SlotRef, 0, len(t.SlotIDs))
	for _, id := range t.SlotIDs {
		t.Slots = append(t.Slots, SlotRef{SlotID: id})
	}
}
