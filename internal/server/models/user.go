// Package models contains the server-side data structures shared by
// repositories and services.
package models

import "time"

// User is a row of the users table. PasswordHash is an opaque bcrypt hash;
// it never leaves the repository/service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	LicenseKey   string
	CreatedAt    time.Time
}
