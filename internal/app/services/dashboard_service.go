package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
)

// DashboardService defines the interface for teacher-facing aggregation
type DashboardService interface {
	GetTeacherDashboard(ctx context.Context, teacherID int64) (*dto.TeacherDashboardResponse, error)
}

// dashboardServiceImpl implements DashboardService
type dashboardServiceImpl struct {
	groupStore      GroupStore
	assignmentStore AssignmentStore
	submissionStore SubmissionStore
	logger          zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	groupStore GroupStore,
	assignmentStore AssignmentStore,
	submissionStore SubmissionStore,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardServiceImpl{
		groupStore:      groupStore,
		assignmentStore: assignmentStore,
		submissionStore: submissionStore,
		logger:          logger,
	}
}

// GetTeacherDashboard recomputes the teacher's overview from the underlying
// rows on every call. Assignment statuses are derived against the request
// clock; nothing here is cached or persisted.
func (s *dashboardServiceImpl) GetTeacherDashboard(ctx context.Context, teacherID int64) (*dto.TeacherDashboardResponse, error) {
	groups, err := s.groupStore.GetByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error getting teacher groups: %w", err)
	}

	assignments, err := s.assignmentStore.GetByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error getting teacher assignments: %w", err)
	}

	assignmentIDs := make([]int64, 0, len(assignments))
	for _, assignment := range assignments {
		assignmentIDs = append(assignmentIDs, assignment.ID)
	}
	statsByID, err := s.submissionStore.GetStatsByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, fmt.Errorf("error getting submission stats: %w", err)
	}

	resp := &dto.TeacherDashboardResponse{
		GroupCount:      len(groups),
		AssignmentCount: len(assignments),
	}

	// Groups with no assignments still show up with zero counts
	groupStats := make(map[int64]*dto.GroupStatsResponse, len(groups))
	groupOrder := make([]int64, 0, len(groups))
	for _, group := range groups {
		groupStats[group.ID] = &dto.GroupStatsResponse{
			GroupID:   group.ID,
			GroupName: group.Name,
		}
		groupOrder = append(groupOrder, group.ID)
	}

	now := time.Now()
	for _, assignment := range assignments {
		switch assignment.Status(now) {
		case models.AssignmentStatusActive:
			resp.ActiveAssignments++
		case models.AssignmentStatusDueSoon:
			resp.DueSoonAssignments++
		case models.AssignmentStatusOverdue:
			resp.OverdueAssignments++
		case models.AssignmentStatusNoDeadline:
			resp.NoDeadlineAssignments++
		}

		gs, ok := groupStats[assignment.GroupID]
		if !ok {
			continue
		}
		gs.AssignmentCount++

		stats, ok := statsByID[assignment.ID]
		if !ok {
			continue
		}
		resp.SubmissionsReceived += stats.SubmissionCount
		resp.GradedSubmissions += stats.GradedCount
		resp.PendingSubmissions += stats.PendingCount
		gs.SubmissionCount += stats.SubmissionCount
		gs.GradedCount += stats.GradedCount
		gs.PendingCount += stats.PendingCount
	}

	resp.Groups = make([]dto.GroupStatsResponse, 0, len(groupOrder))
	for _, id := range groupOrder {
		resp.Groups = append(resp.Groups, *groupStats[id])
	}

	return resp, nil
}
