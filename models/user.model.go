package models

import (
	"time"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login
	Nickname string `gorm:"not null;size:40" json:"nickname"`
	Email    string `gorm:"unique;not null;size:255" json:"-"`
	Password string `gorm:"not null" json:"-"`

	// Profile
	LastName      string    `gorm:"size:40;not null" json:"-"`
	FirstName     string    `gorm:"size:40;not null" json:"-"`
	LastNameKana  string    `gorm:"size:40;not null" json:"-"`
	FirstNameKana string    `gorm:"size:40;not null" json:"-"`
	BirthDate     time.Time `gorm:"type:date" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []Item `gorm:"foreignKey:UserID" json:"-"`
}
