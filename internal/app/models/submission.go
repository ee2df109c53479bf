package models

import "time"

// SubmissionType is the content modality of a submission
type SubmissionType string

const (
	SubmissionTypeText SubmissionType = "TEXT"
	SubmissionTypeURL  SubmissionType = "URL"
	SubmissionTypeDocx SubmissionType = "DOCX"
)

// IsValid reports whether the submission type is one of the recognized modalities
func (t SubmissionType) IsValid() bool {
	return t == SubmissionTypeText || t == SubmissionTypeURL || t == SubmissionTypeDocx
}

// SubmissionStatus tracks the grading lifecycle of a submission
type SubmissionStatus string

const (
	SubmissionStatusPending SubmissionStatus = "PENDING"
	SubmissionStatusGraded  SubmissionStatus = "GRADED"
)

// DocxContentPlaceholder stands in for the content field when the payload is a file
const DocxContentPlaceholder = "Document submitted"

// MaxFeedbackLength bounds the free-text feedback a grader may attach
const MaxFeedbackLength = 1000

// Submission is the single current submission for an (assignment, student) pair.
// A re-submission overwrites this row and resets it to PENDING; prior grades
// never survive against new content.
type Submission struct {
	ID           int64            `json:"id" db:"id"`
	AssignmentID int64            `json:"assignmentId" db:"assignment_id"`
	StudentID    int64            `json:"studentId" db:"student_id"`
	Type         SubmissionType   `json:"type" db:"type"`
	Content      string           `json:"content" db:"content"`
	FileURL      *string          `json:"fileUrl,omitempty" db:"file_url"` // only meaningful for DOCX
	Status       SubmissionStatus `json:"status" db:"status"`
	Grade        *int             `json:"grade,omitempty" db:"grade"`
	Feedback     *string          `json:"feedback,omitempty" db:"feedback"`
	SubmittedAt  time.Time        `json:"submittedAt" db:"submitted_at"`
	GradedAt     *time.Time       `json:"gradedAt,omitempty" db:"graded_at"`

	// Related entities
	Student *User `json:"student,omitempty"`
}

// IsLate reports whether the submission arrived after the assignment's due date.
// Late submissions are never blocked, only flagged at read time.
func (s *Submission) IsLate(dueDate *time.Time) bool {
	return dueDate != nil && s.SubmittedAt.After(*dueDate)
}
