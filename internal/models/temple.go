package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Temple struct {
	gorm.Model
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	Description      string     `gorm:"not null" json:"description"`
	Location         string     `gorm:"not null" json:"location"`
	Address          string     `gorm:"not null" json:"address"`
	City             string     `gorm:"not null" json:"city"`
	State            string     `gorm:"not null" json:"state"`
	Pincode          string     `gorm:"not null" json:"pincode"`
	Timings          string     `json:"timings"`
	ImagePath        string     `json:"image_path"`
	DailyTicketLimit int        `gorm:"not null" json:"daily_ticket_limit"`
	TicketPrice      int        `gorm:"not null;default:0" json:"ticket_price"`
	IsActive         bool       `gorm:"not null;default:true" json:"is_active"`
	OwnerID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner            *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	TimeSlots        []TimeSlot `gorm:"foreignKey:TempleID" json:"time_slots,omitempty"`
	Bookings         []Booking  `gorm:"foreignKey:TempleID" json:"bookings,omitempty"`
}

func (temple *Temple) BeforeCreate(tx *gorm.DB) (err error) {
	if temple.ID == uuid.Nil {
		temple.ID = uuid.New()
	}
	return
}
