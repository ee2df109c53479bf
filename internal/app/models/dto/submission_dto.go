package dto

import (
	"time"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
)

// --- Request DTOs ---

// SubmitRequest represents a student submission. DOCX submissions carry the
// document in the multipart "file" field; content is ignored for them.
type SubmitRequest struct {
	Type    models.SubmissionType `json:"type" form:"type" binding:"required,oneof=TEXT URL DOCX"`
	Content string                `json:"content" form:"content" binding:"max=20000"`
}

// GradeRequest represents a grading action on a submission
type GradeRequest struct {
	Grade    *int    `json:"grade" binding:"required,min=0"`
	Feedback *string `json:"feedback,omitempty" binding:"omitempty,max=1000"`
}

// --- Response DTOs ---

// SubmissionResponse represents the current submission for a student
type SubmissionResponse struct {
	ID           int64                   `json:"id"`
	AssignmentID int64                   `json:"assignmentId"`
	StudentID    int64                   `json:"studentId"`
	Student      *UserResponse           `json:"student,omitempty"`
	Type         models.SubmissionType   `json:"type"`
	Content      string                  `json:"content"`
	FileURL      *string                 `json:"fileUrl,omitempty"`
	Status       models.SubmissionStatus `json:"status"`
	Grade        *int                    `json:"grade,omitempty"`
	Feedback     *string                 `json:"feedback,omitempty"`
	IsLate       bool                    `json:"isLate"`
	SubmittedAt  time.Time               `json:"submittedAt"`
	GradedAt     *time.Time              `json:"gradedAt,omitempty"`
}

// SubmissionListResponse represents the submissions for an assignment
type SubmissionListResponse struct {
	Submissions []SubmissionResponse    `json:"submissions"`
	Stats       AssignmentStatsResponse `json:"stats"`
}

// FromSubmission converts a submission model to its response form. The
// assignment's due date is needed to flag late submissions at read time.
func FromSubmission(submission *models.Submission, dueDate *time.Time) SubmissionResponse {
	if submission == nil {
		return SubmissionResponse{}
	}

	resp := SubmissionResponse{
		ID:           submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		Type:         submission.Type,
		Content:      submission.Content,
		FileURL:      submission.FileURL,
		Status:       submission.Status,
		Grade:        submission.Grade,
		Feedback:     submission.Feedback,
		IsLate:       submission.IsLate(dueDate),
		SubmittedAt:  submission.SubmittedAt,
		GradedAt:     submission.GradedAt,
	}

	if submission.Student != nil {
		student := FromUser(submission.Student)
		resp.Student = &student
	}

	return resp
}
