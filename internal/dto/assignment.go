package dto

import (
	"encoding/json"
	"time"
)

// CreateAssignmentRequest is the teacher's form for a new assignment.
type CreateAssignmentRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// SubmitRequest carries a student's submission text.
type SubmitRequest struct {
	SubmissionText string `json:"submission_text"`
}

// GradeSubmissionRequest keeps the grade raw so non-integer input can be
// rejected with a validation error instead of a bind failure.
type GradeSubmissionRequest struct {
	Grade    json.Number `json:"grade"`
	Feedback *string     `json:"feedback"`
}

// GradebookFormat selects the export encoding.
type GradebookFormat string

const (
	GradebookCSV GradebookFormat = "csv"
	GradebookPDF GradebookFormat = "pdf"
)

// GradebookFile is a rendered gradebook ready to be streamed.
type GradebookFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
