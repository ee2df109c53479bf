package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
)

// GroupGetter loads groups for ownership checks.
type GroupGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
}

// MembershipChecker answers whether a student belongs to a group.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, studentID int64) (bool, error)
}

// UserGetter loads users for role checks.
type UserGetter interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthorizationService centralizes ownership and enrollment checks shared
// by the group, assignment and submission services.
type AuthorizationService struct {
	users   UserGetter
	groups  GroupGetter
	members MembershipChecker
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserGetter, groups GroupGetter, members MembershipChecker) *AuthorizationService {
	return &AuthorizationService{
		users:   users,
		groups:  groups,
		members: members,
	}
}

// IsTeacher reports whether the user exists and holds the teacher role.
func (s *AuthorizationService) IsTeacher(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error checking teacher role: %w", err)
	}
	return user.RoleType == models.RoleTeacher, nil
}

// ValidateGroupOwner loads the group and verifies the caller owns it.
// Returns the group so callers avoid a second lookup.
func (s *AuthorizationService) ValidateGroupOwner(ctx context.Context, groupID, userID int64) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.TeacherID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	return group, nil
}

// ValidateEnrollment verifies the student is a member of the group.
func (s *AuthorizationService) ValidateEnrollment(ctx context.Context, groupID, studentID int64) error {
	member, err := s.members.IsMember(ctx, groupID, studentID)
	if err != nil {
		return fmt.Errorf("error checking enrollment: %w", err)
	}
	if !member {
		return apperrors.ErrNotEnrolled
	}
	return nil
}
