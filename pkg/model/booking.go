package model

import (
	"time"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID          string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	ProductID       string    `json:"product_id" bson:"product_id" validate:"required,mongodb"`
	StartDate       Date      `json:"start_date" bson:"start_date"`
	EndDate         Date      `json:"end_date" bson:"end_date"`
	TotalPriceCents int64     `json:"total_price_cents" bson:"total_price_cents" validate:"omitempty,min=0"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the typed creation payload. Dates arrive as YYYY-MM-DD
// strings and are parsed into Date values by the JSON codec.
type BookingRequest struct {
	UserID    string `json:"user_id" validate:"required,mongodb"`
	ProductID string `json:"product_id" validate:"required,mongodb"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	StartDate Date `json:"start_date" bson:"start_date"`
	EndDate   Date `json:"end_date" bson:"end_date"`
}
