package models

import "time"

// DueDateLayout is the wire and storage format for task due dates.
// Due dates are calendar dates with no time-of-day component.
const DueDateLayout = "2006-01-02"

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsOverdue reports whether the task's due date has passed as of today and
// the task is not completed. A task is not overdue on its due date itself.
// The caller supplies today so the rule stays deterministic and testable.
func (t Task) IsOverdue(today time.Time) bool {
	if t.IsCompleted {
		return false
	}
	return dateOnly(t.DueDate).Before(dateOnly(today))
}

// dateOnly truncates a timestamp to its calendar date, discarding zone offset
// along with the time of day.
func dateOnly(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
