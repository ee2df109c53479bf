package dto

import (
	"time"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
)

// --- Request DTOs ---

// CreateAssignmentRequest represents assignment creation data
type CreateAssignmentRequest struct {
	GroupID     int64      `json:"groupId" binding:"required,gt=0"`
	Title       string     `json:"title" binding:"required,min=2,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	TotalPoints int        `json:"totalPoints" binding:"required,min=1,max=1000"`
}

// UpdateAssignmentRequest represents assignment update data
type UpdateAssignmentRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	TotalPoints int        `json:"totalPoints" binding:"required,min=1,max=1000"`
}

// AssignmentFilterRequest represents assignment filter parameters
type AssignmentFilterRequest struct {
	GroupID  *int64 `form:"groupId,omitempty"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// AssignmentStatsResponse holds read-derived submission counts
type AssignmentStatsResponse struct {
	SubmissionCount int `json:"submissionCount"`
	GradedCount     int `json:"gradedCount"`
	PendingCount    int `json:"pendingCount"`
}

// AssignmentResponse represents an assignment with its derived status
type AssignmentResponse struct {
	ID          int64                    `json:"id"`
	GroupID     int64                    `json:"groupId"`
	GroupName   string                   `json:"groupName,omitempty"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	DueDate     *time.Time               `json:"dueDate,omitempty"`
	TotalPoints int                      `json:"totalPoints"`
	Status      models.AssignmentStatus  `json:"status"`
	Stats       *AssignmentStatsResponse `json:"stats,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// AssignmentListResponse represents a paginated list of assignments
type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// FromAssignment converts an assignment model to its response form,
// deriving the status against the supplied clock
func FromAssignment(assignment *models.Assignment, now time.Time) AssignmentResponse {
	if assignment == nil {
		return AssignmentResponse{}
	}

	resp := AssignmentResponse{
		ID:          assignment.ID,
		GroupID:     assignment.GroupID,
		Title:       assignment.Title,
		Description: assignment.Description,
		DueDate:     assignment.DueDate,
		TotalPoints: assignment.TotalPoints,
		Status:      assignment.Status(now),
		CreatedAt:   assignment.CreatedAt,
		UpdatedAt:   assignment.UpdatedAt,
	}

	if assignment.Group != nil {
		resp.GroupName = assignment.Group.Name
	}

	return resp
}
