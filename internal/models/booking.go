package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusVerified  BookingStatus = "VERIFIED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusExpired   BookingStatus = "EXPIRED"
)

// transitions lists the forward moves a booking may make. A status absent
// from the map is terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusExpired},
	StatusConfirmed: {StatusVerified, StatusCancelled, StatusExpired},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

type Booking struct {
	gorm.Model
	ID            uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	BookingNumber string        `gorm:"unique;not null" json:"booking_number"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TempleID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"temple_id"`
	Temple        *Temple       `gorm:"foreignKey:TempleID" json:"temple,omitempty"`
	TimeSlotID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"time_slot_id"`
	TimeSlot      *TimeSlot     `gorm:"foreignKey:TimeSlotID" json:"time_slot,omitempty"`
	VisitDate     time.Time     `gorm:"not null;index" json:"visit_date"`
	TicketCount   int           `gorm:"not null" json:"ticket_count"`
	TotalAmount   int           `gorm:"not null" json:"total_amount"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'CONFIRMED'" json:"status"`
	TicketToken   string        `gorm:"type:text" json:"-"`
	TicketImage   string        `gorm:"type:text" json:"ticket_image,omitempty"`
	VerifiedAt    *time.Time    `json:"verified_at,omitempty"`
	VerifiedByID  *uuid.UUID    `gorm:"type:uuid" json:"verified_by_id,omitempty"`
	VerifiedBy    *User         `gorm:"foreignKey:VerifiedByID" json:"verified_by,omitempty"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return
}

// CountedStatuses are the statuses that consume capacity: a cancelled or
// expired booking releases its tickets.
func CountedStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusVerified}
}
