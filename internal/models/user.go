// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is a registered account. Users are never updated after registration.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`
}

// NewUserNotFoundError is the login error for an unknown email.
func NewUserNotFoundError() *AppError {
	return (&AppError{
		Code:    CodeNotFound,
		Message: "User not found",
	}).WithField("email", "User not found")
}
