package models

import (
	"time"
)

type Item struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	Name  string `gorm:"size:40;not null" json:"name"`
	Info  string `gorm:"type:text;not null" json:"info"`
	Price int    `gorm:"not null" json:"price"`

	CategoryID          uint `gorm:"not null" json:"category_id"`
	SalesStatusID       uint `gorm:"not null" json:"sales_status_id"`
	ShippingFeeStatusID uint `gorm:"not null" json:"shipping_fee_status_id"`
	PrefectureID        uint `gorm:"not null" json:"prefecture_id"`
	ScheduledDeliveryID uint `gorm:"not null" json:"scheduled_delivery_id"`

	// ImageKey is the storage key of the attached image.
	ImageKey string `gorm:"not null" json:"image_key"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"seller"`
}

// OwnedBy reports whether userID is the seller of the item.
func (i Item) OwnedBy(userID uint) bool {
	return i.UserID != 0 && i.UserID == userID
}

func (i Item) CategoryName() string          { return Categories.Name(i.CategoryID) }
func (i Item) SalesStatusName() string       { return SalesStatuses.Name(i.SalesStatusID) }
func (i Item) ShippingFeeStatusName() string { return ShippingFeeStatuses.Name(i.ShippingFeeStatusID) }
func (i Item) PrefectureName() string        { return Prefectures.Name(i.PrefectureID) }
func (i Item) ScheduledDeliveryName() string { return ScheduledDeliveries.Name(i.ScheduledDeliveryID) }
