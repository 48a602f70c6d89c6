package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

func TestSubmissionUpsertResetsGrading(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO assignment_submissions .*ON CONFLICT \(assignment_id, student_id\)\s+DO UPDATE SET submission_text = EXCLUDED.submission_text, submitted_at = EXCLUDED.submitted_at,\s+grade = NULL, feedback = NULL, graded_at = NULL, graded_by = NULL\s+RETURNING`).
		WithArgs(sqlmock.AnyArg(), "a1", "s1", "second draft", now).
		WillReturnRows(sqlmock.NewRows(submissionColumns).
			AddRow("sub-1", "a1", "s1", "second draft", now, nil, nil, nil, nil))

	stored, err := repo.Upsert(context.Background(), &models.Submission{
		AssignmentID:   "a1",
		StudentID:      "s1",
		SubmissionText: "second draft",
		SubmittedAt:    now,
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", stored.ID)
	assert.Nil(t, stored.Grade)
	assert.Equal(t, models.StateSubmitted, models.StateOf(stored))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionListByAssignmentsEmptyShortCircuits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	subs, err := repo.ListByAssignments(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionListByAssignmentsUsesAny(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now()
	grade := 75
	mock.ExpectQuery(`FROM assignment_submissions WHERE assignment_id = ANY\(\$1\) ORDER BY submitted_at DESC, id`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(submissionColumns).
			AddRow("sub-2", "a2", "s1", "text", now, grade, "nice", now, "t1").
			AddRow("sub-1", "a1", "s2", "text", now.Add(-time.Minute), nil, nil, nil, nil))

	subs, err := repo.ListByAssignments(context.Background(), []string{"a1", "a2"})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.NotNil(t, subs[0].Grade)
	assert.Equal(t, 75, *subs[0].Grade)
	assert.Equal(t, "nice", *subs[0].Feedback)
	assert.Nil(t, subs[1].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionGetByAssignmentAndStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(`FROM assignment_submissions WHERE assignment_id = \$1 AND student_id = \$2`).
		WithArgs("a1", "s1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByAssignmentAndStudent(context.Background(), "a1", "s1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionSetGrade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now().UTC()
	feedback := "Great work"
	mock.ExpectQuery(`UPDATE assignment_submissions\s+SET grade = \$2, feedback = \$3, graded_by = \$4, graded_at = \$5\s+WHERE id = \$1`).
		WithArgs("sub-1", 90, &feedback, "t1", now).
		WillReturnRows(sqlmock.NewRows(submissionColumns).
			AddRow("sub-1", "a1", "s1", "text", now.Add(-time.Hour), 90, feedback, now, "t1"))

	sub, err := repo.SetGrade(context.Background(), "sub-1", 90, &feedback, "t1", now)
	require.NoError(t, err)
	assert.Equal(t, 90, *sub.Grade)
	assert.Equal(t, "text", sub.SubmissionText)
	assert.Equal(t, models.StateGraded, models.StateOf(sub))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionSetGradeMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(`UPDATE assignment_submissions`).WillReturnError(sql.ErrNoRows)
	_, err := repo.SetGrade(context.Background(), "nope", 50, nil, "t1", time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
