package models

import "time"

// PasswordReset holds the single outstanding reset request for an email.
// The email is the primary key, so issuing a new request replaces any
// prior one. The one-time token is stored bcrypt-hashed; CreatedAt bounds
// its 60-minute validity window.
type PasswordReset struct {
	Email     string    `gorm:"primaryKey;size:255" json:"-"`
	Token     string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}
