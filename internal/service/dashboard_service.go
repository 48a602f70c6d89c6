package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
)

// Dashboard routes per role.
const (
	RouteStudentDashboard = "/dashboard"
	RouteTeacherDashboard = "/teacher"
	RouteNGODashboard     = "/ngo"
)

type studentDashboardSource interface {
	StudentAssignments(ctx context.Context, actor *models.Actor) ([]models.StudentAssignmentView, error)
}

type teacherDashboardSource interface {
	ListTeacherAssignments(ctx context.Context, actor *models.Actor) ([]models.Assignment, error)
	TeacherSubmissions(ctx context.Context, actor *models.Actor) ([]models.SubmissionDetail, error)
}

type ngoDashboardSource interface {
	ListByNGO(ctx context.Context, actor *models.Actor) ([]models.Notification, error)
}

// DashboardService picks the dashboard for an actor's role and assembles its data.
type DashboardService struct {
	students      studentDashboardSource
	teachers      teacherDashboardSource
	notifications ngoDashboardSource
	logger        *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(students studentDashboardSource, teachers teacherDashboardSource, notifications ngoDashboardSource, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{students: students, teachers: teachers, notifications: notifications, logger: logger}
}

// RouteFor returns the dashboard route for role.
func RouteFor(role models.Role) (string, bool) {
	switch role {
	case models.RoleStudent:
		return RouteStudentDashboard, true
	case models.RoleTeacher:
		return RouteTeacherDashboard, true
	case models.RoleNGO:
		return RouteNGODashboard, true
	default:
		return "", false
	}
}

// Resolve builds the dashboard payload for actor.
func (s *DashboardService) Resolve(ctx context.Context, actor *models.Actor) (*dto.DashboardResponse, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "")
	}
	route, ok := RouteFor(actor.Role)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "profile role is not recognised")
	}
	resp := &dto.DashboardResponse{Role: actor.Role, Route: route, Actor: *actor}

	switch actor.Role {
	case models.RoleStudent:
		views, err := s.students.StudentAssignments(ctx, actor)
		if err != nil {
			return nil, err
		}
		board := &dto.StudentDashboard{Assignments: views}
		for _, view := range views {
			switch view.State {
			case models.StateNoSubmission:
				board.Pending++
			case models.StateSubmitted:
				board.Submitted++
			case models.StateGraded:
				board.Graded++
			}
		}
		resp.Student = board
	case models.RoleTeacher:
		assignments, err := s.teachers.ListTeacherAssignments(ctx, actor)
		if err != nil {
			return nil, err
		}
		submissions, err := s.teachers.TeacherSubmissions(ctx, actor)
		if err != nil {
			return nil, err
		}
		board := &dto.TeacherDashboard{Assignments: assignments, Submissions: submissions}
		for _, sub := range submissions {
			if sub.Grade == nil {
				board.Ungraded++
			}
		}
		resp.Teacher = board
	case models.RoleNGO:
		notifications, err := s.notifications.ListByNGO(ctx, actor)
		if err != nil {
			return nil, err
		}
		resp.NGO = &dto.NGODashboard{Notifications: notifications}
	}
	return resp, nil
}
