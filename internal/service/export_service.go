package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/export"
)

type gradebookSource interface {
	TeacherSubmissions(ctx context.Context, actor *models.Actor) ([]models.SubmissionDetail, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
	ContentType() string
}

var gradebookColumns = []export.Column{
	{Key: "assignment", Header: "Assignment", Width: 3},
	{Key: "student", Header: "Student", Width: 2},
	{Key: "submitted_at", Header: "Submitted At", Width: 2},
	{Key: "grade", Header: "Grade", Width: 1},
	{Key: "feedback", Header: "Feedback", Width: 4},
}

// ExportService renders a teacher's gradebook.
type ExportService struct {
	source    gradebookSource
	renderers map[dto.GradebookFormat]tableRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the package defaults.
func NewExportService(source gradebookSource, logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source: source,
		renderers: map[dto.GradebookFormat]tableRenderer{
			dto.GradebookCSV: csv,
			dto.GradebookPDF: pdf,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Gradebook renders every submission on the teacher's assignments.
func (s *ExportService) Gradebook(ctx context.Context, actor *models.Actor, format dto.GradebookFormat) (*dto.GradebookFile, error) {
	format = dto.GradebookFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = dto.GradebookCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}

	details, err := s.source.TeacherSubmissions(ctx, actor)
	if err != nil {
		return nil, err
	}

	table := export.Table{Title: "Gradebook - " + actor.FullName, Columns: gradebookColumns}
	for _, d := range details {
		row := map[string]string{
			"assignment":   d.AssignmentTitle,
			"student":      d.StudentName,
			"submitted_at": d.SubmittedAt.UTC().Format(time.RFC3339),
		}
		if d.Grade != nil {
			row["grade"] = strconv.Itoa(*d.Grade)
		}
		if d.Feedback != nil {
			row["feedback"] = *d.Feedback
		}
		table.Rows = append(table.Rows, row)
	}

	data, err := renderer.Render(table)
	if err != nil {
		s.logger.Error("gradebook render failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render gradebook")
	}
	return &dto.GradebookFile{
		Filename:    fmt.Sprintf("gradebook-%s.%s", s.now().UTC().Format("20060102"), format),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}
