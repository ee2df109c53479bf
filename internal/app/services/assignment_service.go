package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/auth"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/notifier"
)

// AssignmentService defines the interface for assignment operations
type AssignmentService interface {
	CreateAssignment(ctx context.Context, teacherID int64, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	GetAssignmentByID(ctx context.Context, id, requesterID int64) (*dto.AssignmentResponse, error)
	GetAssignmentsByGroup(ctx context.Context, groupID, requesterID int64) ([]dto.AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, id, teacherID int64, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	DeleteAssignment(ctx context.Context, id, teacherID int64) error
}

// assignmentServiceImpl implements AssignmentService
type assignmentServiceImpl struct {
	assignmentStore AssignmentStore
	submissionStore SubmissionStore
	authz           *auth.AuthorizationService
	dispatcher      notifier.Dispatcher
	logger          zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignmentStore AssignmentStore,
	submissionStore SubmissionStore,
	authz *auth.AuthorizationService,
	dispatcher notifier.Dispatcher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentServiceImpl{
		assignmentStore: assignmentStore,
		submissionStore: submissionStore,
		authz:           authz,
		dispatcher:      dispatcher,
		logger:          logger,
	}
}

// CreateAssignment creates an assignment in a lesson group owned by the
// calling teacher. Due dates are optional but must lie in the future.
func (s *assignmentServiceImpl) CreateAssignment(ctx context.Context, teacherID int64, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	group, err := s.authz.ValidateGroupOwner(ctx, req.GroupID, teacherID)
	if err != nil {
		return nil, err
	}
	if group.GroupType != models.GroupTypeLesson {
		return nil, apperrors.ErrInvalidGroupType
	}

	if req.TotalPoints < models.MinTotalPoints || req.TotalPoints > models.MaxTotalPoints {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("totalPoints must be between %d and %d", models.MinTotalPoints, models.MaxTotalPoints))
	}
	if req.DueDate != nil && !req.DueDate.After(time.Now()) {
		return nil, apperrors.ErrDueDateInPast
	}

	assignment := &models.Assignment{
		GroupID:     req.GroupID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		TotalPoints: req.TotalPoints,
	}

	id, err := s.assignmentStore.Create(ctx, assignment)
	if err != nil {
		return nil, fmt.Errorf("error creating assignment: %w", err)
	}
	assignment.ID = id
	assignment.Group = group

	s.logger.Info().
		Int64("assignmentId", id).
		Int64("groupId", req.GroupID).
		Msg("Assignment created")

	// Notify enrolled students without blocking the request
	go s.dispatcher.NotifyGroup(context.WithoutCancel(ctx), group.ID,
		fmt.Sprintf("New assignment: %s", assignment.Title))

	resp := dto.FromAssignment(assignment, time.Now())
	return &resp, nil
}

// GetAssignmentByID retrieves an assignment. The owning teacher also gets
// submission stats; enrolled students see the assignment alone.
func (s *assignmentServiceImpl) GetAssignmentByID(ctx context.Context, id, requesterID int64) (*dto.AssignmentResponse, error) {
	assignment, err := s.assignmentStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := assignment.Group != nil && assignment.Group.TeacherID == requesterID
	if !isOwner {
		if err := s.authz.ValidateEnrollment(ctx, assignment.GroupID, requesterID); err != nil {
			return nil, err
		}
	}

	resp := dto.FromAssignment(assignment, time.Now())
	if isOwner {
		stats, err := s.submissionStore.GetStatsByAssignmentID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error getting submission stats: %w", err)
		}
		resp.Stats = &dto.AssignmentStatsResponse{
			SubmissionCount: stats.SubmissionCount,
			GradedCount:     stats.GradedCount,
			PendingCount:    stats.PendingCount,
		}
	}
	return &resp, nil
}

// GetAssignmentsByGroup lists a group's assignments for its teacher or an
// enrolled student. Stats are attached for the teacher only.
func (s *assignmentServiceImpl) GetAssignmentsByGroup(ctx context.Context, groupID, requesterID int64) ([]dto.AssignmentResponse, error) {
	_, err := s.authz.ValidateGroupOwner(ctx, groupID, requesterID)
	isOwner := err == nil
	if err != nil {
		if !errors.Is(err, apperrors.ErrPermissionDenied) {
			return nil, err
		}
		if err := s.authz.ValidateEnrollment(ctx, groupID, requesterID); err != nil {
			return nil, err
		}
	}

	assignments, err := s.assignmentStore.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error getting assignments: %w", err)
	}

	var statsByID map[int64]*models.AssignmentStats
	if isOwner {
		ids := make([]int64, 0, len(assignments))
		for _, assignment := range assignments {
			ids = append(ids, assignment.ID)
		}
		statsByID, err = s.submissionStore.GetStatsByAssignmentIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("error getting submission stats: %w", err)
		}
	}

	now := time.Now()
	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		resp := dto.FromAssignment(assignment, now)
		if stats, ok := statsByID[assignment.ID]; ok {
			resp.Stats = &dto.AssignmentStatsResponse{
				SubmissionCount: stats.SubmissionCount,
				GradedCount:     stats.GradedCount,
				PendingCount:    stats.PendingCount,
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// UpdateAssignment updates an assignment owned by the calling teacher.
// A changed due date must lie in the future; an unchanged one may stay
// in the past so old assignments remain editable. The point total cannot
// drop below a grade that has already been issued.
func (s *assignmentServiceImpl) UpdateAssignment(ctx context.Context, id, teacherID int64, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.assignmentStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.Group == nil || assignment.Group.TeacherID != teacherID {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.TotalPoints < models.MinTotalPoints || req.TotalPoints > models.MaxTotalPoints {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("totalPoints must be between %d and %d", models.MinTotalPoints, models.MaxTotalPoints))
	}
	if req.DueDate != nil {
		changed := assignment.DueDate == nil || !req.DueDate.Equal(*assignment.DueDate)
		if changed && !req.DueDate.After(time.Now()) {
			return nil, apperrors.ErrDueDateInPast
		}
	}
	if req.TotalPoints < assignment.TotalPoints {
		maxGrade, err := s.submissionStore.GetMaxGradeByAssignmentID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error getting max grade: %w", err)
		}
		if maxGrade != nil && *maxGrade > req.TotalPoints {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("totalPoints cannot be lowered below the highest issued grade (%d)", *maxGrade))
		}
	}

	assignment.Title = req.Title
	assignment.Description = req.Description
	assignment.DueDate = req.DueDate
	assignment.TotalPoints = req.TotalPoints

	if err := s.assignmentStore.Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("error updating assignment: %w", err)
	}

	resp := dto.FromAssignment(assignment, time.Now())
	return &resp, nil
}

// DeleteAssignment deletes an assignment together with its submissions.
func (s *assignmentServiceImpl) DeleteAssignment(ctx context.Context, id, teacherID int64) error {
	assignment, err := s.assignmentStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assignment.Group == nil || assignment.Group.TeacherID != teacherID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.assignmentStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("assignmentId", id).Msg("Assignment deleted")
	return nil
}
