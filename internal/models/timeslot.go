package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSlot is a fixed daily entry window at a temple. StartTime and EndTime
// are wall-clock "HH:MM" strings on the same day, start before end.
type TimeSlot struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TempleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"temple_id"`
	Temple    *Temple   `gorm:"foreignKey:TempleID" json:"temple,omitempty"`
	StartTime string    `gorm:"not null" json:"start_time"`
	EndTime   string    `gorm:"not null" json:"end_time"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
}

func (slot *TimeSlot) BeforeCreate(tx *gorm.DB) (err error) {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	return
}

func (slot *TimeSlot) Window() string {
	return slot.StartTime + " - " + slot.EndTime
}
