package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Thấp"
	PriorityMedium TaskPriority = "Trung bình"
	PriorityHigh   TaskPriority = "Cao"
)

type TaskProgress string

const (
	ProgressOnTrack TaskProgress = "Đúng tiến độ"
	ProgressAtRisk  TaskProgress = "Có rủi ro"
	ProgressLate    TaskProgress = "Trễ hạn"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "To do"
	StatusInProgress TaskStatus = "In Progress"
	StatusPending    TaskStatus = "Pending"
	StatusDone       TaskStatus = "Done"
)

// AllStatuses is the canonical workflow order. Grouping always presents all
// four stages in this order, including empty ones.
var AllStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusPending, StatusDone}

// Task dates are stored as plain "YYYY-MM-DD" strings, exactly as they
// travel on the wire. The "asignDate" key is the established wire format.
type Task struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	TaskName   string         `gorm:"type:varchar(255);not null" json:"taskName"`
	AssigneeID *uint64        `json:"assigneeId"`
	ProjectID  string         `gorm:"type:varchar(36);not null;index" json:"projectId"`
	AsignDate  string         `gorm:"type:varchar(10)" json:"asignDate"`
	DueDate    string         `gorm:"type:varchar(10)" json:"dueDate"`
	Priority   TaskPriority   `gorm:"type:varchar(20);not null;default:'Trung bình'" json:"priority"`
	Progress   TaskProgress   `gorm:"type:varchar(20);not null;default:'Đúng tiến độ'" json:"progress"`
	Status     TaskStatus     `gorm:"type:varchar(20);not null;default:'To do'" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
