// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a principal. Email is stored normalized; PasswordHash is an
// encoded argon2id string produced by cryptox.HashPassword.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
