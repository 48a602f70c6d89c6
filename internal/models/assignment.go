package models

import "time"

// Assignment is a task authored by a teacher. Rows are immutable once created.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	TeacherID   string     `db:"teacher_id" json:"teacher_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// IsOverdue reports whether now is strictly past the due date. Assignments
// without a due date never become overdue.
func (a *Assignment) IsOverdue(now time.Time) bool {
	if a == nil || a.DueDate == nil {
		return false
	}
	return now.After(*a.DueDate)
}
