package models

import "time"

// AuthToken is an opaque bearer credential tied to exactly one user.
// The token string is itself the lookup key: it is generated with enough
// entropy to be unguessable and stored as issued. Several tokens may
// coexist per user (one per device); each lives until explicitly revoked.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"-"`
}
