package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/dberrors"
)

// GroupMemberRepository handles database operations for group memberships
type GroupMemberRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGroupMemberRepository creates a new GroupMemberRepository
func NewGroupMemberRepository(db *pgxpool.Pool) *GroupMemberRepository {
	return &GroupMemberRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AddMember inserts a membership row, enforcing the LESSON capacity invariant
// inside one transaction. The group row is locked before the member count is
// taken, so two concurrent adds at the capacity boundary serialize and the
// second one fails instead of overshooting max_students. The unique
// (group_id, student_id) constraint catches duplicate joins.
func (r *GroupMemberRepository) AddMember(ctx context.Context, groupID, studentID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to begin add member transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var groupType models.GroupType
	var maxStudents *int
	err = tx.QueryRow(ctx,
		`SELECT group_type, max_students FROM groups WHERE id = $1 FOR UPDATE`,
		groupID,
	).Scan(&groupType, &maxStudents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrGroupNotFound
		}
		return 0, fmt.Errorf("error locking group row: %w", err)
	}

	if groupType == models.GroupTypeLesson && maxStudents != nil {
		var count int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM group_members WHERE group_id = $1`,
			groupID,
		).Scan(&count)
		if err != nil {
			return 0, fmt.Errorf("error counting group members: %w", err)
		}

		if count >= *maxStudents {
			return 0, apperrors.ErrGroupCapacityExceeded
		}
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO group_members (group_id, student_id, joined_at) VALUES ($1, $2, NOW()) RETURNING id`,
		groupID, studentID,
	).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "group_members_group_id_student_id_key") {
			return 0, apperrors.ErrAlreadyMember
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("error inserting membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit add member transaction: %w", err)
	}

	return id, nil
}

// RemoveMember deletes a membership row. Past submissions by the removed
// student are left untouched.
func (r *GroupMemberRepository) RemoveMember(ctx context.Context, groupID, studentID int64) error {
	sql, args, err := r.sb.Delete("group_members").
		Where("group_id = ? AND student_id = ?", groupID, studentID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove member query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing member: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}

	return nil
}

// GetMembersByGroupID retrieves all memberships for a group joined with
// student profiles, oldest member first
func (r *GroupMemberRepository) GetMembersByGroupID(ctx context.Context, groupID int64) ([]*models.GroupMember, error) {
	sql, args, err := r.sb.Select(
		"gm.id", "gm.group_id", "gm.student_id", "gm.joined_at",
		"u.email", "u.first_name", "u.last_name",
	).
		From("group_members gm").
		Join("users u ON u.id = gm.student_id").
		Where("gm.group_id = ?", groupID).
		OrderBy("gm.joined_at ASC", "gm.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		var member models.GroupMember
		var student models.User
		err := rows.Scan(
			&member.ID,
			&member.GroupID,
			&member.StudentID,
			&member.JoinedAt,
			&student.Email,
			&student.FirstName,
			&student.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		student.ID = member.StudentID
		member.Student = &student
		members = append(members, &member)
	}

	return members, nil
}

// GetMemberCountByGroupID retrieves the number of members in a group
func (r *GroupMemberRepository) GetMemberCountByGroupID(ctx context.Context, groupID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("group_members").
		Where("group_id = ?", groupID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build member count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting members: %w", err)
	}

	return count, nil
}

// GetMemberCountsByGroupIDs retrieves member counts for multiple groups
func (r *GroupMemberRepository) GetMemberCountsByGroupIDs(ctx context.Context, groupIDs []int64) (map[int64]int, error) {
	if len(groupIDs) == 0 {
		return make(map[int64]int), nil
	}

	sql, args, err := r.sb.Select("group_id", "COUNT(*)").
		From("group_members").
		Where(squirrel.Eq{"group_id": groupIDs}).
		GroupBy("group_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build member counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting members: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var groupID int64
		var count int
		if err := rows.Scan(&groupID, &count); err != nil {
			return nil, fmt.Errorf("error scanning member count row: %w", err)
		}
		counts[groupID] = count
	}

	return counts, nil
}

// IsMember checks if a student belongs to a group
func (r *GroupMemberRepository) IsMember(ctx context.Context, groupID, studentID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("group_members").
		Where("group_id = ? AND student_id = ?", groupID, studentID).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build is member query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking membership: %w", err)
	}

	return true, nil
}
