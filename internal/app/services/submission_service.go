package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/auth"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/filestorage"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/validation"
)

// submissionSubdir is where uploaded submission documents land under the
// storage root.
const submissionSubdir = "submissions"

// SubmissionService defines the interface for submission and grading operations
type SubmissionService interface {
	Submit(ctx context.Context, assignmentID, studentID int64, req *dto.SubmitRequest, file *multipart.FileHeader) (*dto.SubmissionResponse, error)
	GetSubmissions(ctx context.Context, assignmentID, teacherID int64) (*dto.SubmissionListResponse, error)
	GetMySubmission(ctx context.Context, assignmentID, studentID int64) (*dto.SubmissionResponse, error)
	GradeSubmission(ctx context.Context, submissionID, teacherID int64, req *dto.GradeRequest) (*dto.SubmissionResponse, error)
}

// submissionServiceImpl implements SubmissionService
type submissionServiceImpl struct {
	submissionStore SubmissionStore
	assignmentStore AssignmentStore
	authz           *auth.AuthorizationService
	storage         filestorage.FileStorage
	logger          zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	submissionStore SubmissionStore,
	assignmentStore AssignmentStore,
	authz *auth.AuthorizationService,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionServiceImpl{
		submissionStore: submissionStore,
		assignmentStore: assignmentStore,
		authz:           authz,
		storage:         storage,
		logger:          logger,
	}
}

// Submit records a student's submission for an assignment. A student has at
// most one submission per assignment; submitting again replaces the previous
// one and resets it to pending, discarding any earlier grade. Submissions
// after the due date are accepted and flagged late.
func (s *submissionServiceImpl) Submit(ctx context.Context, assignmentID, studentID int64, req *dto.SubmitRequest, file *multipart.FileHeader) (*dto.SubmissionResponse, error) {
	assignment, err := s.assignmentStore.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateEnrollment(ctx, assignment.GroupID, studentID); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Type:         req.Type,
		Status:       models.SubmissionStatusPending,
	}

	switch req.Type {
	case models.SubmissionTypeText:
		content := strings.TrimSpace(req.Content)
		if content == "" {
			return nil, apperrors.NewValidationError("content is required for TEXT submissions")
		}
		submission.Content = content

	case models.SubmissionTypeURL:
		content := strings.TrimSpace(req.Content)
		if !validation.IsValidURL(content) {
			return nil, apperrors.NewValidationError("content must be a valid http or https URL")
		}
		submission.Content = content

	case models.SubmissionTypeDocx:
		if file == nil {
			return nil, apperrors.NewValidationError("a document file is required for DOCX submissions")
		}
		if !strings.EqualFold(filepath.Ext(file.Filename), ".docx") {
			return nil, apperrors.NewValidationError("uploaded file must be a .docx document")
		}
		fileURL, err := s.storage.SaveFileWithPath(file, submissionSubdir)
		if err != nil {
			return nil, fmt.Errorf("error storing submission file: %w", err)
		}
		submission.Content = models.DocxContentPlaceholder
		submission.FileURL = &fileURL

	default:
		return nil, apperrors.ErrInvalidSubmission
	}

	stored, err := s.submissionStore.Upsert(ctx, submission)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("assignmentId", assignmentID).
		Int64("studentId", studentID).
		Str("type", string(req.Type)).
		Bool("late", stored.IsLate(assignment.DueDate)).
		Msg("Submission recorded")

	resp := dto.FromSubmission(stored, assignment.DueDate)
	return &resp, nil
}

// GetSubmissions lists all submissions for an assignment, with counts.
// Only the owning teacher may call this.
func (s *submissionServiceImpl) GetSubmissions(ctx context.Context, assignmentID, teacherID int64) (*dto.SubmissionListResponse, error) {
	assignment, err := s.assignmentStore.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Group == nil || assignment.Group.TeacherID != teacherID {
		return nil, apperrors.ErrPermissionDenied
	}

	submissions, err := s.submissionStore.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error getting submissions: %w", err)
	}
	stats, err := s.submissionStore.GetStatsByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error getting submission stats: %w", err)
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.FromSubmission(submission, assignment.DueDate))
	}

	return &dto.SubmissionListResponse{
		Submissions: responses,
		Stats: dto.AssignmentStatsResponse{
			SubmissionCount: stats.SubmissionCount,
			GradedCount:     stats.GradedCount,
			PendingCount:    stats.PendingCount,
		},
	}, nil
}

// GetMySubmission retrieves the calling student's submission for an assignment
func (s *submissionServiceImpl) GetMySubmission(ctx context.Context, assignmentID, studentID int64) (*dto.SubmissionResponse, error) {
	assignment, err := s.assignmentStore.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	submission, err := s.submissionStore.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromSubmission(submission, assignment.DueDate)
	return &resp, nil
}

// GradeSubmission assigns a grade and optional feedback to a submission.
// The grade must fall within [0, totalPoints] of the assignment. Grading an
// already graded submission overwrites the previous grade.
func (s *submissionServiceImpl) GradeSubmission(ctx context.Context, submissionID, teacherID int64, req *dto.GradeRequest) (*dto.SubmissionResponse, error) {
	submission, err := s.submissionStore.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentStore.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Group == nil || assignment.Group.TeacherID != teacherID {
		return nil, apperrors.ErrPermissionDenied
	}

	grade := *req.Grade
	if grade < 0 || grade > assignment.TotalPoints {
		return nil, apperrors.NewCustomError(apperrors.ErrGradeOutOfRange,
			fmt.Sprintf("grade must be between 0 and %d", assignment.TotalPoints))
	}
	if req.Feedback != nil && len(*req.Feedback) > models.MaxFeedbackLength {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("feedback must not exceed %d characters", models.MaxFeedbackLength))
	}

	if err := s.submissionStore.Grade(ctx, submissionID, grade, req.Feedback); err != nil {
		return nil, err
	}

	graded, err := s.submissionStore.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("submissionId", submissionID).
		Int64("assignmentId", assignment.ID).
		Int("grade", grade).
		Msg("Submission graded")

	resp := dto.FromSubmission(graded, assignment.DueDate)
	return &resp, nil
}
