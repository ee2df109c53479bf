package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	GroupRepository       *GroupRepository
	GroupMemberRepository *GroupMemberRepository
	AssignmentRepository  *AssignmentRepository
	SubmissionRepository  *SubmissionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		GroupRepository:       NewGroupRepository(db),
		GroupMemberRepository: NewGroupMemberRepository(db),
		AssignmentRepository:  NewAssignmentRepository(db),
		SubmissionRepository:  NewSubmissionRepository(db),
	}
}
