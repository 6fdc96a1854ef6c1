package model

import (
	"github.com/lib/pq"
)

// Service is a bookable treatment offering. Slots describe the catalog of
// time labels for a day; they are never mutated by bookings.
type Service struct {
	Base
	Name  string         `db:"name" json:"name"`
	Price int            `db:"price" json:"price"`
	Slots pq.StringArray `db:"slots" json:"slots"`
}

// ServiceView is a Service with its slots narrowed to the ones still open on
// the requested date.
type ServiceView struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Slots []string `json:"slots"`
}

// ServiceName is the minimal projection used to populate dropdowns.
type ServiceName struct {
	Name string `db:"name" json:"name"`
}
