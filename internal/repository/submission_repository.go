package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

const submissionReturning = `id, assignment_id, student_id, submission_text, submitted_at, grade, feedback, graded_at, graded_by`

var submissionColumns = []string{"id", "assignment_id", "student_id", "submission_text", "submitted_at", "grade", "feedback", "graded_at", "graded_by"}

// SubmissionRepository persists student submissions.
type SubmissionRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewSubmissionRepository creates a new instance of SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts or replaces the submission keyed by (assignment_id, student_id)
// in a single statement. Replacing a row resets any previous grading.
func (r *SubmissionRepository) Upsert(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	const query = `INSERT INTO assignment_submissions (id, assignment_id, student_id, submission_text, submitted_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (assignment_id, student_id)
DO UPDATE SET submission_text = EXCLUDED.submission_text, submitted_at = EXCLUDED.submitted_at,
              grade = NULL, feedback = NULL, graded_at = NULL, graded_by = NULL
RETURNING ` + submissionReturning
	var stored models.Submission
	if err := r.db.GetContext(ctx, &stored, query, sub.ID, sub.AssignmentID, sub.StudentID, sub.SubmissionText, sub.SubmittedAt); err != nil {
		return nil, fmt.Errorf("upsert submission: %w", err)
	}
	return &stored, nil
}

// ListByAssignments returns submissions for any of the given assignments,
// most recent first. An empty id set returns an empty slice without a query.
func (r *SubmissionRepository) ListByAssignments(ctx context.Context, assignmentIDs []string) ([]models.Submission, error) {
	if len(assignmentIDs) == 0 {
		return []models.Submission{}, nil
	}
	return r.list(ctx, squirrel.Expr("assignment_id = ANY(?)", pq.Array(assignmentIDs)))
}

// ListByStudent returns every submission made by the student.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	return r.list(ctx, squirrel.Eq{"student_id": studentID})
}

func (r *SubmissionRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.Submission, error) {
	query, args, err := r.sb.Select(submissionColumns...).
		From("assignment_submissions").
		Where(where).
		OrderBy("submitted_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list submissions: %w", err)
	}
	subs := make([]models.Submission, 0)
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// GetByID returns the submission or sql.ErrNoRows.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

// GetByAssignmentAndStudent returns the student's submission for an
// assignment or sql.ErrNoRows.
func (r *SubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	return r.get(ctx, squirrel.Eq{"assignment_id": assignmentID, "student_id": studentID})
}

func (r *SubmissionRepository) get(ctx context.Context, where squirrel.Sqlizer) (*models.Submission, error) {
	query, args, err := r.sb.Select(submissionColumns...).
		From("assignment_submissions").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get submission: %w", err)
	}
	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &sub, nil
}

// SetGrade records grade and feedback on a submission. The submission text
// and timestamp are left untouched.
func (r *SubmissionRepository) SetGrade(ctx context.Context, id string, grade int, feedback *string, gradedBy string, gradedAt time.Time) (*models.Submission, error) {
	const query = `UPDATE assignment_submissions
SET grade = $2, feedback = $3, graded_by = $4, graded_at = $5
WHERE id = $1
RETURNING ` + submissionReturning
	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, id, grade, feedback, gradedBy, gradedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("set submission grade: %w", err)
	}
	return &sub, nil
}
