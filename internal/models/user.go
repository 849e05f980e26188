package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser        Role = "USER"
	RoleTempleBoard Role = "TEMPLE_BOARD"
	RoleSuperuser   Role = "SUPERUSER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleTempleBoard, RoleSuperuser:
		return Role(s), true
	}
	return "", false
}

type User struct {
	gorm.Model
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"unique;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Phone      string    `json:"phone"`
	Role       Role      `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	Temples    []Temple  `gorm:"foreignKey:OwnerID" json:"temples,omitempty"`
	Bookings   []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
