package services

import (
	"context"
	"time"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
)

// Store interfaces decouple the services from the pgx-backed repositories.
// The repositories package satisfies all of them; tests substitute fakes.

// UserStore provides user lookups and account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// TokenStore persists refresh tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetTokenUser(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// GroupStore provides group persistence.
type GroupStore interface {
	Create(ctx context.Context, group *models.Group) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetAll(ctx context.Context, teacherID *int64, search *string, page, pageSize int) ([]*models.Group, int64, error)
	GetByTeacherID(ctx context.Context, teacherID int64) ([]*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id int64) error
	HasAssignments(ctx context.Context, groupID int64) (bool, error)
}

// GroupMemberStore provides membership persistence. AddMember enforces the
// lesson capacity limit and membership uniqueness at the storage level.
type GroupMemberStore interface {
	AddMember(ctx context.Context, groupID, studentID int64) (int64, error)
	RemoveMember(ctx context.Context, groupID, studentID int64) error
	GetMembersByGroupID(ctx context.Context, groupID int64) ([]*models.GroupMember, error)
	GetMemberCountByGroupID(ctx context.Context, groupID int64) (int, error)
	GetMemberCountsByGroupIDs(ctx context.Context, groupIDs []int64) (map[int64]int, error)
	IsMember(ctx context.Context, groupID, studentID int64) (bool, error)
}

// AssignmentStore provides assignment persistence.
type AssignmentStore interface {
	Create(ctx context.Context, assignment *models.Assignment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)
	GetByGroupID(ctx context.Context, groupID int64) ([]*models.Assignment, error)
	GetByTeacherID(ctx context.Context, teacherID int64) ([]*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

// SubmissionStore provides submission persistence. Upsert keeps at most one
// submission per (assignment, student) pair and resets it to pending.
type SubmissionStore interface {
	Upsert(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error)
	GetByAssignmentID(ctx context.Context, assignmentID int64) ([]*models.Submission, error)
	Grade(ctx context.Context, submissionID int64, grade int, feedback *string) error
	GetMaxGradeByAssignmentID(ctx context.Context, assignmentID int64) (*int, error)
	GetStatsByAssignmentID(ctx context.Context, assignmentID int64) (*models.AssignmentStats, error)
	GetStatsByAssignmentIDs(ctx context.Context, assignmentIDs []int64) (map[int64]*models.AssignmentStats, error)
}
