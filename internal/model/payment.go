package model

import (
	"github.com/google/uuid"
)

// Payment records a settled charge against a booking. Immutable once written.
type Payment struct {
	Base
	BookingID     uuid.UUID `db:"booking_id" json:"bookingId"`
	Email         string    `db:"email" json:"email"`
	Price         int       `db:"price" json:"price"`
	Currency      string    `db:"currency" json:"currency"`
	TransactionID string    `db:"transaction_id" json:"transactionId"`
}

type RecordPaymentRequest struct {
	BookingID     string `json:"bookingId" binding:"required,uuid"`
	Email         string `json:"email" binding:"omitempty,email"`
	Price         int    `json:"price" binding:"required,gt=0"`
	TransactionID string `json:"transactionId" binding:"required"`
}

type CreatePaymentIntentRequest struct {
	Price int `json:"price" binding:"required,gt=0"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
