package user

import (
	"errors"
	"time"
)

// PasswordHash is never serialized towards clients.
type User struct {
	UserID       int64     `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("user not found")
