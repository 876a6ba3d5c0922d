package model

import "time"

// User represents a backoffice employee.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
