package models

import "time"

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ItemResponse is the public JSON shape of a listing. Lookup ids are
// resolved to their display names.
type ItemResponse struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Info              string    `json:"info"`
	Price             int       `json:"price"`
	Category          string    `json:"category"`
	SalesStatus       string    `json:"sales_status"`
	ShippingFeeStatus string    `json:"shipping_fee_status"`
	Prefecture        string    `json:"prefecture"`
	ScheduledDelivery string    `json:"scheduled_delivery"`
	ImageURL          string    `json:"image_url"`
	SellerID          uint      `json:"seller_id"`
	SellerNickname    string    `json:"seller_nickname"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewItemResponse(item *Item, imageURL string) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Info:              item.Info,
		Price:             item.Price,
		Category:          item.CategoryName(),
		SalesStatus:       item.SalesStatusName(),
		ShippingFeeStatus: item.ShippingFeeStatusName(),
		Prefecture:        item.PrefectureName(),
		ScheduledDelivery: item.ScheduledDeliveryName(),
		ImageURL:          imageURL,
		SellerID:          item.UserID,
		SellerNickname:    item.User.Nickname,
		CreatedAt:         item.CreatedAt,
	}
}

func SuccessResponse(message string, data, meta interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data, Meta: meta, Timestamp: time.Now()}
}

func ErrorResponse(message string, details interface{}) APIResponse {
	return APIResponse{Success: false, Message: message, Error: details, Timestamp: time.Now()}
}

// NewPaginationMeta describes page out of total rows split into pages of limit.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
}
