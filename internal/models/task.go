package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusTodo       = "To Do"
	TaskStatusInProgress = "In Progress"
	TaskStatusDone       = "Done"
)

const (
	TaskPriorityLow    = "Low"
	TaskPriorityMedium = "Medium"
	TaskPriorityHigh   = "High"
)

type Task struct {
	gorm.Model

	Title        string `gorm:"not null"`
	Description  string
	Status       string `gorm:"not null;default:'To Do'"`
	Priority     string `gorm:"not null;default:'Medium'"`
	ProjectID    uint   `gorm:"not null;index"`
	CreatedByID  *uint  `gorm:"index"`
	AssignedToID *uint  `gorm:"index"`
	DueDate      *time.Time
	CompletedAt  *time.Time

	// Relationships
	Project    Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy  *User     `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments   []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IsOverdue reports whether the task has a due date strictly in the past.
// A task with no due date is never overdue.
func (t *Task) IsOverdue() bool {
	return t.DueDate != nil && t.DueDate.Before(time.Now())
}
