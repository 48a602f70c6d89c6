package dto

import "github.com/noah-isme/ecoquest-api/internal/models"

// DashboardResponse tells the client which dashboard to render and carries its data.
type DashboardResponse struct {
	Role    models.Role       `json:"role"`
	Route   string            `json:"route"`
	Actor   models.Actor      `json:"actor"`
	Student *StudentDashboard `json:"student,omitempty"`
	Teacher *TeacherDashboard `json:"teacher,omitempty"`
	NGO     *NGODashboard     `json:"ngo,omitempty"`
}

// StudentDashboard lists every assignment with the student's progress.
type StudentDashboard struct {
	Assignments []models.StudentAssignmentView `json:"assignments"`
	Pending     int                            `json:"pending"`
	Submitted   int                            `json:"submitted"`
	Graded      int                            `json:"graded"`
}

// TeacherDashboard shows the teacher's assignments and incoming submissions.
type TeacherDashboard struct {
	Assignments []models.Assignment       `json:"assignments"`
	Submissions []models.SubmissionDetail `json:"submissions"`
	Ungraded    int                       `json:"ungraded"`
}

// NGODashboard lists the notifications posted by the NGO.
type NGODashboard struct {
	Notifications []models.Notification `json:"notifications"`
}
