package domain

import "time"

// Person is a registered viewer. PasswordHash holds the bcrypt digest and
// must never be serialized to clients.
type Person struct {
	ID           int64
	Name         string
	Email        string
	Gender       string
	Age          int
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
