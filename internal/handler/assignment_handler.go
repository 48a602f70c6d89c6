package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	"github.com/noah-isme/ecoquest-api/pkg/response"
)

type assignmentLifecycle interface {
	CreateAssignment(ctx context.Context, actor *models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error)
	ListTeacherAssignments(ctx context.Context, actor *models.Actor) ([]models.Assignment, error)
	GetAssignment(ctx context.Context, actor *models.Actor, id string) (*models.Assignment, error)
	Submit(ctx context.Context, actor *models.Actor, assignmentID string, req dto.SubmitRequest) (*models.Submission, error)
	Grade(ctx context.Context, actor *models.Actor, submissionID string, req dto.GradeSubmissionRequest) (*models.Submission, error)
	StudentAssignments(ctx context.Context, actor *models.Actor) ([]models.StudentAssignmentView, error)
	TeacherSubmissions(ctx context.Context, actor *models.Actor) ([]models.SubmissionDetail, error)
}

type gradebookExporter interface {
	Gradebook(ctx context.Context, actor *models.Actor, format dto.GradebookFormat) (*dto.GradebookFile, error)
}

// AssignmentHandler exposes the assignment and submission lifecycle.
type AssignmentHandler struct {
	lifecycle assignmentLifecycle
	exporter  gradebookExporter
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(lifecycle assignmentLifecycle, exporter gradebookExporter) *AssignmentHandler {
	return &AssignmentHandler{lifecycle: lifecycle, exporter: exporter}
}

// Create godoc
// @Summary Create assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid assignment payload"))
		return
	}

	assignment, err := h.lifecycle.CreateAssignment(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Mine godoc
// @Summary List own assignments
// @Description Assignments created by the authenticated teacher, newest first
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments/mine [get]
func (h *AssignmentHandler) Mine(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	items, err := h.lifecycle.ListTeacherAssignments(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"count": len(items)})
}

// Submissions godoc
// @Summary List submissions for own assignments
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments/submissions [get]
func (h *AssignmentHandler) Submissions(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	items, err := h.lifecycle.TeacherSubmissions(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"count": len(items)})
}

// Gradebook godoc
// @Summary Export gradebook
// @Tags Assignments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /assignments/gradebook [get]
func (h *AssignmentHandler) Gradebook(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	format := dto.GradebookFormat(strings.ToLower(c.DefaultQuery("format", string(dto.GradebookCSV))))

	file, err := h.exporter.Gradebook(c.Request.Context(), actor, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// List godoc
// @Summary List assignments for a student
// @Description Every assignment with the caller's submission, state and available actions
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	items, err := h.lifecycle.StudentAssignments(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"count": len(items)})
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	assignment, err := h.lifecycle.GetAssignment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// Submit godoc
// @Summary Submit or update a submission
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.SubmitRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /assignments/{id}/submission [put]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid submission payload"))
		return
	}

	submission, err := h.lifecycle.Submit(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, submission)
}

// Grade godoc
// @Summary Grade a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.GradeSubmissionRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /submissions/{id}/grade [patch]
func (h *AssignmentHandler) Grade(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "grade must be an integer"))
		return
	}

	submission, err := h.lifecycle.Grade(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, submission)
}
