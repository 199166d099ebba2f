package models

import "time"

// Project is a tracked site/deployment together with the credentials a
// developer needs to work on it. Every field except Title is optional
// free-form payload; the core never interprets the credential bundle.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Site access
	Login    string `gorm:"size:255" json:"login,omitempty"`
	Password string `gorm:"size:255" json:"password,omitempty"`
	URL      string `gorm:"size:255" json:"url,omitempty"`
	Accesses string `gorm:"type:text" json:"accesses,omitempty"`

	// Admin panel access
	AdminURL      string `gorm:"size:255" json:"admin_url,omitempty"`
	AdminLogin    string `gorm:"size:255" json:"admin_login,omitempty"`
	AdminPassword string `gorm:"size:255" json:"admin_password,omitempty"`

	// SSH access
	SSHHost     string `gorm:"size:255" json:"ssh_host,omitempty"`
	SSHUser     string `gorm:"size:255" json:"ssh_user,omitempty"`
	SSHPassword string `gorm:"size:255" json:"ssh_password,omitempty"`
	SSHPort     int    `gorm:"default:22" json:"ssh_port"`

	BuildCommands string `gorm:"type:text" json:"build_commands,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`
}

// GetUserID implements policy.Ownable.
func (p Project) GetUserID() uint { return p.UserID }
