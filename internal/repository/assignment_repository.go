package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

var assignmentColumns = []string{"id", "teacher_id", "title", "description", "due_date", "created_at"}

// AssignmentRepository persists assignments. There is no update or delete
// path; assignments are immutable once created.
type AssignmentRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the assignment, assigning its id and the store's created_at.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	query, args, err := r.sb.Insert("assignments").
		Columns("id", "teacher_id", "title", "description", "due_date").
		Values(assignment.ID, assignment.TeacherID, assignment.Title, assignment.Description, assignment.DueDate).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert assignment: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&assignment.CreatedAt); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// ListByTeacher returns the teacher's assignments, newest first.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	return r.list(ctx, squirrel.Eq{"teacher_id": teacherID})
}

// ListAll returns every assignment, newest first.
func (r *AssignmentRepository) ListAll(ctx context.Context) ([]models.Assignment, error) {
	return r.list(ctx, nil)
}

func (r *AssignmentRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.Assignment, error) {
	builder := r.sb.Select(assignmentColumns...).From("assignments")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.OrderBy("created_at DESC", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list assignments: %w", err)
	}
	assignments := make([]models.Assignment, 0)
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// GetByID returns the assignment or sql.ErrNoRows.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query, args, err := r.sb.Select(assignmentColumns...).
		From("assignments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get assignment: %w", err)
	}
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &assignment, nil
}
