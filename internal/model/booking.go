package model

import (
	"github.com/google/uuid"
)

// Booking is a patient's reservation of one service slot on one date.
// The paid/transaction fields are only ever flipped by payment recording.
type Booking struct {
	Base
	Email         string  `db:"email" json:"email"`
	TreatmentName string  `db:"treatment_name" json:"treatmentName"`
	TreatmentDate string  `db:"treatment_date" json:"treatmentDate"`
	Time          string  `db:"slot_time" json:"time"`
	Price         int     `db:"price" json:"price"`
	Paid          bool    `db:"paid" json:"paid"`
	TransactionID *string `db:"transaction_id" json:"transactionId,omitempty"`
}

type CreateBookingRequest struct {
	Email         string `json:"email" binding:"required,email"`
	TreatmentName string `json:"treatmentName" binding:"required"`
	TreatmentDate string `json:"treatmentDate" binding:"required,bookdate"`
	Time          string `json:"time" binding:"required"`
	Price         int    `json:"price" binding:"omitempty,gte=0"`
}

// AdmissionResult mirrors the insert acknowledgement the original portal
// client expects: acknowledged=false carries the duplicate-booking message.
type AdmissionResult struct {
	Acknowledged bool       `json:"acknowledged"`
	InsertedID   *uuid.UUID `json:"insertedId,omitempty"`
	Message      string     `json:"message,omitempty"`
}
