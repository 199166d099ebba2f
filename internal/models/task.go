package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Task statuses form a closed set; anything else is rejected at validation.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Task priority bounds (1 = low, 3 = high).
const (
	TaskPriorityMin = 1
	TaskPriorityMax = 3
)

// TaskImage is a reference to an uploaded image. The bytes live in the
// storage backend; the task only carries this metadata.
type TaskImage struct {
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// TaskImages is stored as a JSON text column. The list is opaque payload
// to the core: it is serialized and returned as-is.
type TaskImages []TaskImage

// Value implements driver.Valuer.
func (ti TaskImages) Value() (driver.Value, error) {
	if len(ti) == 0 {
		return nil, nil
	}
	return json.Marshal(ti)
}

// Scan implements sql.Scanner.
func (ti *TaskImages) Scan(value any) error {
	if value == nil {
		*ti = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ti)
	case string:
		return json.Unmarshal([]byte(v), ti)
	default:
		return fmt.Errorf("unsupported type %T for TaskImages", value)
	}
}

// Task is a unit of work owned by a user, optionally tied to one of their
// projects. A task may outlive its project (ProjectID is nullable).
type Task struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`

	ProjectID *uint    `gorm:"index" json:"project_id"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      string     `gorm:"size:50;not null;default:pending" json:"status"`
	Priority    int        `gorm:"not null;default:1" json:"priority"`
	Images      TaskImages `gorm:"type:text" json:"images,omitempty"`
}

// GetUserID implements policy.Ownable.
func (t Task) GetUserID() uint { return t.UserID }
