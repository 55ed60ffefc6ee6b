package model

import "time"

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status is the lifecycle state of a task. Occurrence generation hooks
// onto the transition into StatusCompleted only.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// transitions lists the allowed status changes.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusArchived},
	StatusInProgress: {StatusPending, StatusCompleted, StatusArchived},
	StatusCompleted:  {StatusPending, StatusInProgress, StatusArchived},
	StatusArchived:   {StatusPending},
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a task may move from s to next.
// Staying in the same status is always allowed.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return s.Valid()
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Task is a single item in the planner, optionally recurring.
type Task struct {
	ID          string   `json:"id" gorm:"primaryKey;size:36"`
	OwnerID     string   `json:"owner_id" gorm:"index;size:36"`
	ProjectID   *string  `json:"project_id,omitempty" gorm:"index;size:36"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority" gorm:"default:medium"`
	Status      Status   `json:"status" gorm:"index;default:pending"`
	// Completed mirrors Status for clients that predate the
	// four-state status field.
	Completed    bool       `json:"completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ReminderDate *time.Time `json:"reminder_date,omitempty"`
	Tags         []string   `json:"tags,omitempty" gorm:"serializer:json"`
	Subtasks     []Subtask  `json:"subtasks,omitempty" gorm:"serializer:json"`
	Recurring    Recurrence `json:"recurring" gorm:"embedded;embeddedPrefix:recur_"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Subtask is a checklist entry nested inside a task. Checkmarks never
// carry over into a new occurrence.
type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Recurrence configures automatic regeneration of a task after it is
// completed. Frequency is one of daily, weekly, monthly or yearly;
// Interval means "every N frequency units".
type Recurrence struct {
	Enabled        bool       `json:"enabled" gorm:"default:false"`
	Frequency      string     `json:"frequency,omitempty"`
	Interval       int        `json:"interval" gorm:"default:1"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	NextOccurrence *time.Time `json:"next_occurrence,omitempty"`
}

// SetStatus moves the task to next and keeps the legacy Completed flag
// and CompletedAt in sync with it.
func (t *Task) SetStatus(next Status, now time.Time) {
	t.Status = next
	if next == StatusCompleted {
		t.Completed = true
		if t.CompletedAt == nil {
			completedAt := now
			t.CompletedAt = &completedAt
		}
		return
	}
	t.Completed = false
	t.CompletedAt = nil
}
