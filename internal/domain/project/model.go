package project

import (
	"time"

	"github.com/google/uuid"
)

// Status is the workflow stage of a project
type Status string

const (
	StatusPlanning   Status = "Planning"
	StatusInProgress Status = "In Progress"
	StatusReview     Status = "Review"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPlanning, StatusInProgress, StatusReview, StatusCompleted}

// Priority ranks project urgency
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// DueDateLayout is the calendar-date format used for due dates.
const DueDateLayout = "2006-01-02"

// Assignee is a denormalized snapshot of the person responsible for a project
type Assignee struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Initials string `json:"initials"`
}

// Project is the record managed by the dashboard
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Assignee    Assignee  `json:"assignee"`
	DueDate     string    `json:"dueDate"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UserID      string    `json:"userId,omitempty"`
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate"`
	Assignee    *Assignee `json:"assignee,omitempty"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Assignee    *Assignee `json:"assignee,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Progress    *int      `json:"progress,omitempty"`
}

// NewID returns a time-ordered project identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "proj_" + uuid.NewString()
	}
	return "proj_" + id.String()
}

// New builds a project owned by ownerID. Progress always starts at zero.
// Missing status and priority default to Planning and Medium.
func New(ownerID string, req CreateRequest, now time.Time) (*Project, error) {
	if req.Status == "" {
		req.Status = StatusPlanning
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if err := ValidateCreate(req); err != nil {
		return nil, err
	}
	proj := &Project{
		ID:          NewID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      ownerID,
	}
	if req.Assignee != nil {
		proj.Assignee = *req.Assignee
	}
	return proj, nil
}

// Apply merges the patch into the project and refreshes UpdatedAt.
// UpdatedAt never moves backwards even if the clock does.
func (p *Project) Apply(patch Patch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Priority != nil {
		p.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		p.Assignee = *patch.Assignee
	}
	if patch.DueDate != nil {
		p.DueDate = *patch.DueDate
	}
	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}
	if now.After(p.UpdatedAt) {
		p.UpdatedAt = now
	}
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch == Patch{}
}
