package model

import "time"

// Factory is a production partner orders are dispatched to.
type Factory struct {
	ID            int64
	Name          string
	CountryCode   string
	Email         string
	ContactPerson string
	Active        bool
	CreatedAt     time.Time
}
