package domain

import "time"

// User represents a visitor who completed the signup step.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	RegisteredAt time.Time
}

// UserStats summarizes the registration repository for the admin endpoints.
type UserStats struct {
	TotalUsers int64
}
