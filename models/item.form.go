package models

import (
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
)

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// ItemForm holds the submitted values of the listing form. Price stays a
// string so that the form can be re-rendered exactly as typed.
type ItemForm struct {
	Image *multipart.FileHeader `validate:"-"`

	Name                string `label:"Name" validate:"required,max=40"`
	Info                string `label:"Info" validate:"required,max=1000"`
	CategoryID          uint   `label:"Category" validate:"lookup=categories"`
	SalesStatusID       uint   `label:"Sales status" validate:"lookup=sales_statuses"`
	ShippingFeeStatusID uint   `label:"Shipping fee status" validate:"lookup=shipping_fee_statuses"`
	PrefectureID        uint   `label:"Prefecture" validate:"lookup=prefectures"`
	ScheduledDeliveryID uint   `label:"Scheduled delivery" validate:"lookup=scheduled_deliveries"`
	Price               string `label:"Price" validate:"required,halfwidth_digits,price_range"`
}

// NewItemForm prefills a form with the current values of item. The image is
// never prefilled.
func NewItemForm(item *Item) ItemForm {
	return ItemForm{
		Name:                item.Name,
		Info:                item.Info,
		CategoryID:          item.CategoryID,
		SalesStatusID:       item.SalesStatusID,
		ShippingFeeStatusID: item.ShippingFeeStatusID,
		PrefectureID:        item.PrefectureID,
		ScheduledDeliveryID: item.ScheduledDeliveryID,
		Price:               strconv.Itoa(item.Price),
	}
}

// Validate checks every field. requireImage is true on create.
func (f *ItemForm) Validate(requireImage bool) error {
	var imageErrs []string
	switch {
	case f.Image == nil && requireImage:
		imageErrs = append(imageErrs, "Image can't be blank")
	case f.Image != nil && !allowedImageExts[strings.ToLower(filepath.Ext(f.Image.Filename))]:
		imageErrs = append(imageErrs, "Image must be a JPEG, PNG or GIF file")
	}
	return validateStruct(f, imageErrs...)
}

// PriceValue returns the parsed price. Only meaningful after Validate.
func (f *ItemForm) PriceValue() int {
	n, _ := strconv.Atoi(f.Price)
	return n
}

// ApplyTo copies the text and lookup fields onto item.
func (f *ItemForm) ApplyTo(item *Item) {
	item.Name = f.Name
	item.Info = f.Info
	item.CategoryID = f.CategoryID
	item.SalesStatusID = f.SalesStatusID
	item.ShippingFeeStatusID = f.ShippingFeeStatusID
	item.PrefectureID = f.PrefectureID
	item.ScheduledDeliveryID = f.ScheduledDeliveryID
	item.Price = f.PriceValue()
}
