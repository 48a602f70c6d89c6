package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/events"
)

// UnknownStudentName labels submissions whose student has no profile.
const UnknownStudentName = "Unknown Student"

type assignmentStore interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error)
	ListAll(ctx context.Context) ([]models.Assignment, error)
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
}

type submissionStore interface {
	Upsert(ctx context.Context, sub *models.Submission) (*models.Submission, error)
	ListByAssignments(ctx context.Context, assignmentIDs []string) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)
	SetGrade(ctx context.Context, id string, grade int, feedback *string, gradedBy string, gradedAt time.Time) (*models.Submission, error)
}

type profileNameReader interface {
	FullNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

// Grades are whole numbers in this range, matching the submissions CHECK constraint.
const (
	GradeMin = 0
	GradeMax = 100
)

// LifecycleService drives assignments from creation through submission to grading.
type LifecycleService struct {
	assignments assignmentStore
	submissions submissionStore
	profiles    profileNameReader
	events      events.Publisher
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewLifecycleService constructs a LifecycleService.
func NewLifecycleService(assignments assignmentStore, submissions submissionStore, profiles profileNameReader, publisher events.Publisher, metrics *MetricsService, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		assignments: assignments,
		submissions: submissions,
		profiles:    profiles,
		events:      publisher,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for overdue checks and timestamps.
func (s *LifecycleService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateAssignment stores a new assignment owned by the calling teacher.
func (s *LifecycleService) CreateAssignment(ctx context.Context, actor *models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := RequireRole(actor, models.RoleTeacher); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if description == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "description is required")
	}

	assignment := &models.Assignment{
		TeacherID:   actor.ID,
		Title:       title,
		Description: description,
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		assignment.DueDate = &due
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Repository(err, "failed to create assignment")
	}

	s.metrics.RecordTransition(TransitionAssignmentCreated)
	publishEvent(ctx, s.events, s.metrics, s.logger, events.Event{
		Type:       events.TypeAssignmentCreated,
		Key:        assignment.ID,
		OccurredAt: s.now().UTC(),
		ActorID:    actor.ID,
		Data:       assignment,
	})
	return assignment, nil
}

// ListTeacherAssignments returns the teacher's assignments, newest first.
func (s *LifecycleService) ListTeacherAssignments(ctx context.Context, actor *models.Actor) ([]models.Assignment, error) {
	if err := RequireRole(actor, models.RoleTeacher); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Repository(err, "failed to list assignments")
	}
	return assignments, nil
}

// GetAssignment returns one assignment to any authenticated actor.
func (s *LifecycleService) GetAssignment(ctx context.Context, actor *models.Actor, id string) (*models.Assignment, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "")
	}
	return s.loadAssignment(ctx, id)
}

// Submit creates or replaces the student's submission for an assignment.
// New submissions are refused once the assignment is overdue; existing ones
// may still be updated.
func (s *LifecycleService) Submit(ctx context.Context, actor *models.Actor, assignmentID string, req dto.SubmitRequest) (*models.Submission, error) {
	if err := RequireRole(actor, models.RoleStudent); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SubmissionText) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submission text is required")
	}

	assignment, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, actor.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Repository(err, "failed to load submission")
	}
	now := s.now().UTC()
	if existing == nil && assignment.IsOverdue(now) {
		s.metrics.RecordTransition(TransitionSubmissionClosed)
		return nil, appErrors.Clone(appErrors.ErrSubmissionClosed, "")
	}

	stored, err := s.submissions.Upsert(ctx, &models.Submission{
		AssignmentID:   assignment.ID,
		StudentID:      actor.ID,
		SubmissionText: req.SubmissionText,
		SubmittedAt:    now,
	})
	if err != nil {
		return nil, appErrors.Repository(err, "failed to save submission")
	}

	transition := TransitionSubmitted
	if existing != nil {
		transition = TransitionResubmitted
	}
	s.metrics.RecordTransition(transition)
	publishEvent(ctx, s.events, s.metrics, s.logger, events.Event{
		Type:       events.TypeSubmissionSubmitted,
		Key:        stored.ID,
		OccurredAt: now,
		ActorID:    actor.ID,
		Data: map[string]interface{}{
			"submission_id": stored.ID,
			"assignment_id": stored.AssignmentID,
			"student_id":    stored.StudentID,
			"resubmission":  existing != nil,
		},
	})
	return stored, nil
}

// Grade records a grade and optional feedback on a submission belonging to
// one of the calling teacher's assignments.
func (s *LifecycleService) Grade(ctx context.Context, actor *models.Actor, submissionID string, req dto.GradeSubmissionRequest) (*models.Submission, error) {
	if err := RequireRole(actor, models.RoleTeacher); err != nil {
		return nil, err
	}
	grade, err := s.parseGrade(req.Grade)
	if err != nil {
		return nil, err
	}
	feedback := trimmedOrNil(req.Feedback)

	if !isUUID(submissionID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Repository(err, "failed to load submission")
	}
	assignment, err := s.loadAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.TeacherID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the assignment's teacher may grade it")
	}

	now := s.now().UTC()
	graded, err := s.submissions.SetGrade(ctx, sub.ID, grade, feedback, actor.ID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Repository(err, "failed to grade submission")
	}

	s.metrics.RecordTransition(TransitionGraded)
	publishEvent(ctx, s.events, s.metrics, s.logger, events.Event{
		Type:       events.TypeSubmissionGraded,
		Key:        graded.ID,
		OccurredAt: now,
		ActorID:    actor.ID,
		Data: map[string]interface{}{
			"submission_id": graded.ID,
			"assignment_id": graded.AssignmentID,
			"student_id":    graded.StudentID,
			"grade":         grade,
		},
	})
	return graded, nil
}

// StateOf returns the derived submission state.
func (s *LifecycleService) StateOf(_ *models.Assignment, sub *models.Submission) models.SubmissionState {
	return models.StateOf(sub)
}

// ActionsFor returns the actions available to the student at the service clock's now.
func (s *LifecycleService) ActionsFor(assignment *models.Assignment, sub *models.Submission) models.Actions {
	return models.ActionsFor(assignment, sub, s.now().UTC())
}

// StudentAssignments lists every assignment together with the student's
// submission, state and available actions.
func (s *LifecycleService) StudentAssignments(ctx context.Context, actor *models.Actor) ([]models.StudentAssignmentView, error) {
	if err := RequireRole(actor, models.RoleStudent); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Repository(err, "failed to list assignments")
	}
	subs, err := s.submissions.ListByStudent(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Repository(err, "failed to list submissions")
	}

	byAssignment := make(map[string]*models.Submission, len(subs))
	for i := range subs {
		byAssignment[subs[i].AssignmentID] = &subs[i]
	}

	now := s.now().UTC()
	views := make([]models.StudentAssignmentView, 0, len(assignments))
	for i := range assignments {
		sub := byAssignment[assignments[i].ID]
		views = append(views, models.StudentAssignmentView{
			Assignment: assignments[i],
			Submission: sub,
			State:      models.StateOf(sub),
			Actions:    models.ActionsFor(&assignments[i], sub, now),
		})
	}
	return views, nil
}

// TeacherSubmissions lists submissions across the teacher's assignments with
// the student's name and the assignment title attached.
func (s *LifecycleService) TeacherSubmissions(ctx context.Context, actor *models.Actor) ([]models.SubmissionDetail, error) {
	if err := RequireRole(actor, models.RoleTeacher); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Repository(err, "failed to list assignments")
	}
	return s.submissionDetails(ctx, assignments)
}

func (s *LifecycleService) submissionDetails(ctx context.Context, assignments []models.Assignment) ([]models.SubmissionDetail, error) {
	titles := make(map[string]string, len(assignments))
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		titles[a.ID] = a.Title
		ids = append(ids, a.ID)
	}

	subs, err := s.submissions.ListByAssignments(ctx, ids)
	if err != nil {
		return nil, appErrors.Repository(err, "failed to list submissions")
	}

	seen := make(map[string]struct{}, len(subs))
	studentIDs := make([]string, 0, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.StudentID]; !ok {
			seen[sub.StudentID] = struct{}{}
			studentIDs = append(studentIDs, sub.StudentID)
		}
	}
	names, err := s.profiles.FullNames(ctx, studentIDs)
	if err != nil {
		return nil, appErrors.Repository(err, "failed to load student names")
	}

	details := make([]models.SubmissionDetail, 0, len(subs))
	for _, sub := range subs {
		name, ok := names[sub.StudentID]
		if !ok || strings.TrimSpace(name) == "" {
			name = UnknownStudentName
		}
		details = append(details, models.SubmissionDetail{
			Submission:      sub,
			StudentName:     name,
			AssignmentTitle: titles[sub.AssignmentID],
		})
	}
	return details, nil
}

func (s *LifecycleService) loadAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	if !isUUID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Repository(err, "failed to load assignment")
	}
	return assignment, nil
}

func (s *LifecycleService) parseGrade(raw json.Number) (int, error) {
	value := strings.TrimSpace(raw.String())
	if value == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "grade is required")
	}
	grade, err := strconv.Atoi(value)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "grade must be a whole number")
	}
	if grade < GradeMin || grade > GradeMax {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("grade must be between %d and %d", GradeMin, GradeMax))
	}
	return grade, nil
}

// isUUID keeps malformed ids away from the uuid-typed columns.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
