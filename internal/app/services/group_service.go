package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/auth"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/helpers"
)

// GroupService defines the interface for group and membership operations
type GroupService interface {
	CreateGroup(ctx context.Context, teacherID int64, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetGroupByID(ctx context.Context, id, requesterID int64) (*dto.GroupDetailResponse, error)
	GetAllGroups(ctx context.Context, filter *dto.GroupFilterRequest) (*dto.GroupListResponse, error)
	UpdateGroup(ctx context.Context, id, teacherID int64, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error)
	DeleteGroup(ctx context.Context, id, teacherID int64) error
	AddMember(ctx context.Context, groupID, teacherID, studentID int64) error
	RemoveMember(ctx context.Context, groupID, teacherID, studentID int64) error
	GetMembers(ctx context.Context, groupID, requesterID int64) ([]dto.GroupMemberResponse, error)
}

// groupServiceImpl implements GroupService
type groupServiceImpl struct {
	groupStore  GroupStore
	memberStore GroupMemberStore
	userStore   UserStore
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupStore GroupStore,
	memberStore GroupMemberStore,
	userStore UserStore,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groupStore:  groupStore,
		memberStore: memberStore,
		userStore:   userStore,
		authz:       authz,
		logger:      logger,
	}
}

// CreateGroup creates a new group owned by the calling teacher.
// Lesson groups must carry a capacity; support groups are uncapped.
func (s *groupServiceImpl) CreateGroup(ctx context.Context, teacherID int64, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if !req.GroupType.IsValid() {
		return nil, apperrors.ErrInvalidGroupType
	}
	if req.GroupType == models.GroupTypeLesson && req.MaxStudents == nil {
		return nil, apperrors.NewValidationError("maxStudents is required for LESSON groups")
	}
	if req.GroupType == models.GroupTypeSupport && req.MaxStudents != nil {
		return nil, apperrors.NewValidationError("maxStudents is not allowed for SUPPORT groups")
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		GroupType:   req.GroupType,
		MaxStudents: req.MaxStudents,
		IsActive:    true,
		TeacherID:   teacherID,
		ProductID:   req.ProductID,
	}

	id, err := s.groupStore.Create(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	group.ID = id

	s.logger.Info().
		Int64("groupId", id).
		Int64("teacherId", teacherID).
		Str("groupType", string(group.GroupType)).
		Msg("Group created")

	resp := dto.FromGroup(group)
	return &resp, nil
}

// GetGroupByID retrieves a group. The member roster is attached only for
// the owning teacher and enrolled students; other callers get the group
// metadata and member count alone.
func (s *groupServiceImpl) GetGroupByID(ctx context.Context, id, requesterID int64) (*dto.GroupDetailResponse, error) {
	group, err := s.groupStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	canSeeRoster := group.TeacherID == requesterID
	if !canSeeRoster {
		canSeeRoster, err = s.memberStore.IsMember(ctx, id, requesterID)
		if err != nil {
			return nil, fmt.Errorf("error checking membership: %w", err)
		}
	}

	count, err := s.memberStore.GetMemberCountByGroupID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting member count: %w", err)
	}
	group.MemberCount = count

	detail := &dto.GroupDetailResponse{
		GroupResponse: dto.FromGroup(group),
	}
	if !canSeeRoster {
		return detail, nil
	}

	members, err := s.memberStore.GetMembersByGroupID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting group members: %w", err)
	}

	detail.Members = make([]dto.GroupMemberResponse, 0, len(members))
	for _, member := range members {
		detail.Members = append(detail.Members, dto.FromGroupMember(member))
	}
	return detail, nil
}

// GetAllGroups retrieves groups with filtering and pagination
func (s *groupServiceImpl) GetAllGroups(ctx context.Context, filter *dto.GroupFilterRequest) (*dto.GroupListResponse, error) {
	groups, total, err := s.groupStore.GetAll(ctx, filter.TeacherID, filter.Search, filter.Page, filter.PageSize)
	if err != nil {
		return nil, fmt.Errorf("error getting groups: %w", err)
	}

	groupIDs := make([]int64, 0, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
	}
	counts, err := s.memberStore.GetMemberCountsByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("error getting member counts: %w", err)
	}

	groupResponses := make([]dto.GroupResponse, 0, len(groups))
	for _, group := range groups {
		group.MemberCount = counts[group.ID]
		groupResponses = append(groupResponses, dto.FromGroup(group))
	}

	return &dto.GroupListResponse{
		Groups:     groupResponses,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// UpdateGroup updates a group's name, description and active flag.
// Group type and capacity are fixed at creation.
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, id, teacherID int64, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.authz.ValidateGroupOwner(ctx, id, teacherID)
	if err != nil {
		return nil, err
	}

	group.Name = req.Name
	group.Description = req.Description
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}

	if err := s.groupStore.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("error updating group: %w", err)
	}

	count, err := s.memberStore.GetMemberCountByGroupID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting member count: %w", err)
	}
	group.MemberCount = count

	resp := dto.FromGroup(group)
	return &resp, nil
}

// DeleteGroup deletes a group. Groups that still have members or
// assignments are kept; callers must detach them first.
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, id, teacherID int64) error {
	if _, err := s.authz.ValidateGroupOwner(ctx, id, teacherID); err != nil {
		return err
	}

	hasAssignments, err := s.groupStore.HasAssignments(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking group assignments: %w", err)
	}
	if hasAssignments {
		return apperrors.ErrGroupHasDependents
	}

	count, err := s.memberStore.GetMemberCountByGroupID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting member count: %w", err)
	}
	if count > 0 {
		return apperrors.ErrGroupHasDependents
	}

	if err := s.groupStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("groupId", id).Msg("Group deleted")
	return nil
}

// AddMember enrolls a student into a group owned by the calling teacher.
// The capacity limit for lesson groups is enforced by the member store
// under a row lock, so concurrent enrollments cannot oversubscribe.
func (s *groupServiceImpl) AddMember(ctx context.Context, groupID, teacherID, studentID int64) error {
	group, err := s.authz.ValidateGroupOwner(ctx, groupID, teacherID)
	if err != nil {
		return err
	}
	if !group.IsActive {
		return apperrors.ErrGroupInactive
	}

	student, err := s.userStore.GetUserByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student.RoleType != models.RoleStudent {
		return apperrors.NewValidationError("only students can be enrolled in groups")
	}

	if _, err := s.memberStore.AddMember(ctx, groupID, studentID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("groupId", groupID).
		Int64("studentId", studentID).
		Msg("Student enrolled in group")
	return nil
}

// RemoveMember removes a student from a group. The student's submissions
// to the group's assignments are left untouched.
func (s *groupServiceImpl) RemoveMember(ctx context.Context, groupID, teacherID, studentID int64) error {
	if _, err := s.authz.ValidateGroupOwner(ctx, groupID, teacherID); err != nil {
		return err
	}

	if err := s.memberStore.RemoveMember(ctx, groupID, studentID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("groupId", groupID).
		Int64("studentId", studentID).
		Msg("Student removed from group")
	return nil
}

// GetMembers lists a group's members. Only the owning teacher and
// enrolled students can see the roster.
func (s *groupServiceImpl) GetMembers(ctx context.Context, groupID, requesterID int64) ([]dto.GroupMemberResponse, error) {
	group, err := s.groupStore.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.TeacherID != requesterID {
		member, err := s.memberStore.IsMember(ctx, groupID, requesterID)
		if err != nil {
			return nil, fmt.Errorf("error checking membership: %w", err)
		}
		if !member {
			return nil, apperrors.ErrPermissionDenied
		}
	}

	members, err := s.memberStore.GetMembersByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error getting group members: %w", err)
	}

	memberResponses := make([]dto.GroupMemberResponse, 0, len(members))
	for _, member := range members {
		memberResponses = append(memberResponses, dto.FromGroupMember(member))
	}
	return memberResponses, nil
}
