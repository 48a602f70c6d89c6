package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
)

type fakeLifecycle struct {
	created     dto.CreateAssignmentRequest
	submitted   dto.SubmitRequest
	submittedTo string
	graded      dto.GradeSubmissionRequest
	gradedID    string
	err         error
	views       []models.StudentAssignmentView
}

func (f *fakeLifecycle) CreateAssignment(_ context.Context, actor *models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Assignment{ID: "a1", TeacherID: actor.ID, Title: req.Title, Description: req.Description, CreatedAt: time.Now()}, nil
}

func (f *fakeLifecycle) ListTeacherAssignments(context.Context, *models.Actor) ([]models.Assignment, error) {
	return []models.Assignment{{ID: "a2"}, {ID: "a1"}}, f.err
}

func (f *fakeLifecycle) GetAssignment(_ context.Context, _ *models.Actor, id string) (*models.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Assignment{ID: id}, nil
}

func (f *fakeLifecycle) Submit(_ context.Context, actor *models.Actor, assignmentID string, req dto.SubmitRequest) (*models.Submission, error) {
	f.submitted = req
	f.submittedTo = assignmentID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Submission{ID: "s1", AssignmentID: assignmentID, StudentID: actor.ID, SubmissionText: req.SubmissionText}, nil
}

func (f *fakeLifecycle) Grade(_ context.Context, _ *models.Actor, submissionID string, req dto.GradeSubmissionRequest) (*models.Submission, error) {
	f.graded = req
	f.gradedID = submissionID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Submission{ID: submissionID}, nil
}

func (f *fakeLifecycle) StudentAssignments(context.Context, *models.Actor) ([]models.StudentAssignmentView, error) {
	return f.views, f.err
}

func (f *fakeLifecycle) TeacherSubmissions(context.Context, *models.Actor) ([]models.SubmissionDetail, error) {
	return []models.SubmissionDetail{{StudentName: "Sam Student"}}, f.err
}

type fakeExporter struct {
	format dto.GradebookFormat
	err    error
}

func (f *fakeExporter) Gradebook(_ context.Context, _ *models.Actor, format dto.GradebookFormat) (*dto.GradebookFile, error) {
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return &dto.GradebookFile{Filename: "gradebook.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("a,b\n")}, nil
}

func assignmentRouter(actor *models.Actor, lc *fakeLifecycle, ex *fakeExporter) http.Handler {
	h := NewAssignmentHandler(lc, ex)
	r := newTestRouter(actor)
	r.POST("/assignments", h.Create)
	r.GET("/assignments", h.List)
	r.GET("/assignments/mine", h.Mine)
	r.GET("/assignments/submissions", h.Submissions)
	r.GET("/assignments/gradebook", h.Gradebook)
	r.GET("/assignments/:id", h.Get)
	r.PUT("/assignments/:id/submission", h.Submit)
	r.PATCH("/submissions/:id/grade", h.Grade)
	return r
}

func TestAssignmentCreate(t *testing.T) {
	lc := &fakeLifecycle{}
	rec := serveJSON(assignmentRouter(teacherActor, lc, &fakeExporter{}), http.MethodPost, "/assignments",
		`{"title":"Plant a tree","description":"Photograph it","due_date":"2026-11-01T00:00:00Z"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Plant a tree", lc.created.Title)
	require.NotNil(t, lc.created.DueDate)
	assert.Equal(t, 2026, lc.created.DueDate.Year())

	var created models.Assignment
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, teacherActor.ID, created.TeacherID)
}

func TestAssignmentCreateRejectsMalformedJSON(t *testing.T) {
	rec := serveJSON(assignmentRouter(teacherActor, &fakeLifecycle{}, &fakeExporter{}), http.MethodPost, "/assignments", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)
}

func TestAssignmentRequiresActor(t *testing.T) {
	rec := serveJSON(assignmentRouter(nil, &fakeLifecycle{}, &fakeExporter{}), http.MethodGet, "/assignments/mine", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssignmentMineCountsItems(t *testing.T) {
	rec := serveJSON(assignmentRouter(teacherActor, &fakeLifecycle{}, &fakeExporter{}), http.MethodGet, "/assignments/mine", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeEnvelope(t, rec).Meta["count"])
}

func TestAssignmentSubmitMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{appErrors.Clone(appErrors.ErrValidation, "submission text is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{appErrors.Clone(appErrors.ErrNotFound, "assignment not found"), http.StatusNotFound, "NOT_FOUND"},
		{appErrors.Clone(appErrors.ErrSubmissionClosed, ""), http.StatusUnprocessableEntity, "SUBMISSION_CLOSED"},
		{appErrors.Clone(appErrors.ErrForbidden, ""), http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			lc := &fakeLifecycle{err: tc.err}
			rec := serveJSON(assignmentRouter(studentActor, lc, &fakeExporter{}), http.MethodPut, "/assignments/a1/submission", `{"submission_text":"done"}`)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeEnvelope(t, rec).Error.Code)
			assert.Equal(t, "a1", lc.submittedTo)
		})
	}
}

func TestAssignmentSubmitSuccess(t *testing.T) {
	lc := &fakeLifecycle{}
	rec := serveJSON(assignmentRouter(studentActor, lc, &fakeExporter{}), http.MethodPut, "/assignments/a1/submission", `{"submission_text":"I planted an oak"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "I planted an oak", lc.submitted.SubmissionText)
}

func TestGradeKeepsRawNumber(t *testing.T) {
	lc := &fakeLifecycle{}
	rec := serveJSON(assignmentRouter(teacherActor, lc, &fakeExporter{}), http.MethodPatch, "/submissions/s1/grade", `{"grade":87.5,"feedback":"close"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", lc.gradedID)
	assert.Equal(t, "87.5", lc.graded.Grade.String())
	require.NotNil(t, lc.graded.Feedback)
	assert.Equal(t, "close", *lc.graded.Feedback)
}

func TestGradeRejectsNonNumericGrade(t *testing.T) {
	lc := &fakeLifecycle{}
	rec := serveJSON(assignmentRouter(teacherActor, lc, &fakeExporter{}), http.MethodPatch, "/submissions/s1/grade", `{"grade":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, lc.gradedID)
}

func TestGradebookStreamsFile(t *testing.T) {
	ex := &fakeExporter{}
	rec := serveJSON(assignmentRouter(teacherActor, &fakeLifecycle{}, ex), http.MethodGet, "/assignments/gradebook?format=CSV", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.GradebookCSV, ex.format)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gradebook.csv")
	assert.Equal(t, "a,b\n", rec.Body.String())
}

func TestStudentListIncludesActions(t *testing.T) {
	lc := &fakeLifecycle{views: []models.StudentAssignmentView{{
		Assignment: models.Assignment{ID: "a1"},
		State:      models.StateNoSubmission,
		Actions:    models.Actions{CanSubmit: true},
	}}}
	rec := serveJSON(assignmentRouter(studentActor, lc, &fakeExporter{}), http.MethodGet, "/assignments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"can_submit":true`)
}
