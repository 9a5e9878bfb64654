package models

import "time"

// Task priorities
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task optionally links to a client; unlinked tasks never reach the
// activity timeline.
type Task struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Priority  string     `gorm:"not null;default:'medium'" json:"priority"` // low, medium, high
	ClientID  *uint      `gorm:"index" json:"client_id,omitempty"`
	Completed bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
