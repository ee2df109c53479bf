package models

import "time"

// Total points bounds for an assignment
const (
	MinTotalPoints = 1
	MaxTotalPoints = 1000
)

// DueSoonWindow is how close a due date must be for an assignment to count as due soon
const DueSoonWindow = 3 * 24 * time.Hour

// AssignmentStatus is derived from the due date at read time, never persisted
type AssignmentStatus string

const (
	AssignmentStatusNoDeadline AssignmentStatus = "NO_DEADLINE"
	AssignmentStatusOverdue    AssignmentStatus = "OVERDUE"
	AssignmentStatusDueSoon    AssignmentStatus = "DUE_SOON"
	AssignmentStatusActive     AssignmentStatus = "ACTIVE"
)

// Assignment represents a piece of work set for a lesson group
type Assignment struct {
	ID          int64      `json:"id" db:"id"`
	GroupID     int64      `json:"groupId" db:"group_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty" db:"due_date"`
	TotalPoints int        `json:"totalPoints" db:"total_points"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Group *Group `json:"group,omitempty"`
}

// Status derives the assignment's status from its due date and the given clock.
// Keeping this a pure function of (dueDate, now) means assignments age naturally
// without any stored state or background job.
func (a *Assignment) Status(now time.Time) AssignmentStatus {
	return DeriveAssignmentStatus(a.DueDate, now)
}

// DeriveAssignmentStatus computes the read-time status for a due date
func DeriveAssignmentStatus(dueDate *time.Time, now time.Time) AssignmentStatus {
	if dueDate == nil {
		return AssignmentStatusNoDeadline
	}
	if dueDate.Before(now) {
		return AssignmentStatusOverdue
	}
	if dueDate.Sub(now) <= DueSoonWindow {
		return AssignmentStatusDueSoon
	}
	return AssignmentStatusActive
}

// AssignmentStats holds read-derived submission counts for one assignment
type AssignmentStats struct {
	AssignmentID    int64 `json:"assignmentId"`
	SubmissionCount int   `json:"submissionCount"`
	GradedCount     int   `json:"gradedCount"`
	PendingCount    int   `json:"pendingCount"`
}
