package models

import "time"

// Submission is a student's response to an assignment. There is at most one
// row per (assignment, student) pair.
type Submission struct {
	ID             string     `db:"id" json:"id"`
	AssignmentID   string     `db:"assignment_id" json:"assignment_id"`
	StudentID      string     `db:"student_id" json:"student_id"`
	SubmissionText string     `db:"submission_text" json:"submission_text"`
	SubmittedAt    time.Time  `db:"submitted_at" json:"submitted_at"`
	Grade          *int       `db:"grade" json:"grade"`
	Feedback       *string    `db:"feedback" json:"feedback"`
	GradedAt       *time.Time `db:"graded_at" json:"graded_at,omitempty"`
	GradedBy       *string    `db:"graded_by" json:"graded_by,omitempty"`
}

// SubmissionState is the derived lifecycle position of a student on an assignment.
type SubmissionState string

const (
	StateNoSubmission SubmissionState = "no_submission"
	StateSubmitted    SubmissionState = "submitted"
	StateGraded       SubmissionState = "graded"
)

// StateOf derives the state from an optional submission.
func StateOf(sub *Submission) SubmissionState {
	switch {
	case sub == nil:
		return StateNoSubmission
	case sub.Grade != nil:
		return StateGraded
	default:
		return StateSubmitted
	}
}

// Actions lists what a student may do on an assignment right now.
type Actions struct {
	CanSubmit bool `json:"can_submit"`
	CanUpdate bool `json:"can_update"`
	Overdue   bool `json:"overdue"`
}

// ActionsFor computes the available actions. Submitting is closed only when
// the assignment is overdue and nothing was submitted; an existing
// submission can always be updated.
func ActionsFor(a *Assignment, sub *Submission, now time.Time) Actions {
	overdue := a.IsOverdue(now)
	return Actions{
		CanSubmit: sub == nil && !overdue,
		CanUpdate: sub != nil,
		Overdue:   overdue,
	}
}

// SubmissionDetail is a submission enriched for the teacher view.
type SubmissionDetail struct {
	Submission
	StudentName     string `db:"student_name" json:"student_name"`
	AssignmentTitle string `db:"assignment_title" json:"assignment_title"`
}

// StudentAssignmentView pairs an assignment with the caller's submission.
type StudentAssignmentView struct {
	Assignment Assignment      `json:"assignment"`
	Submission *Submission     `json:"submission"`
	State      SubmissionState `json:"state"`
	Actions    Actions         `json:"actions"`
}
