package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new group and returns its ID
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) (int64, error) {
	now := time.Now()

	sql, args, err := r.sb.Insert("groups").
		Columns("name", "description", "group_type", "max_students", "is_active", "teacher_id", "product_id", "created_at", "updated_at").
		Values(group.Name, group.Description, group.GroupType, group.MaxStudents, true, group.TeacherID, group.ProductID, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create group query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating group: %w", err)
	}

	return id, nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	sql, args, err := r.groupSelect().Where("g.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}

	return r.scanGroup(r.db.QueryRow(ctx, sql, args...))
}

// GetAll retrieves groups with optional teacher filter, name search and pagination
func (r *GroupRepository) GetAll(ctx context.Context, teacherID *int64, search *string, page, pageSize int) ([]*models.Group, int64, error) {
	base := r.sb.Select().From("groups g")
	if teacherID != nil {
		base = base.Where("g.teacher_id = ?", *teacherID)
	}
	if search != nil && *search != "" {
		base = base.Where("g.name ILIKE ?", "%"+*search+"%")
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count groups query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting groups: %w", err)
	}

	offset := uint64((page - 1) * pageSize)
	listSQL, listArgs, err := base.
		Columns(groupColumns...).
		OrderBy("g.created_at DESC").
		Limit(uint64(pageSize)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := r.scanGroupRow(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

// GetByTeacherID retrieves every group owned by a teacher, unpaginated.
// The dashboard aggregates over the full collection, never a page of it.
func (r *GroupRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*models.Group, error) {
	sql, args, err := r.groupSelect().
		Where("g.teacher_id = ?", teacherID).
		OrderBy("g.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build teacher groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing teacher groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := r.scanGroupRow(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// Update updates a group's mutable fields
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	sql, args, err := r.sb.Update("groups").
		Set("name", group.Name).
		Set("description", group.Description).
		Set("is_active", group.IsActive).
		Set("updated_at", time.Now()).
		Where("id = ?", group.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update group query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating group: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// Delete removes a group. Callers are responsible for ensuring the group has
// no members or assignments; the FK constraints back that up.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("groups").Where("id = ?", id).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete group query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting group: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// HasAssignments reports whether any assignment targets the group
func (r *GroupRepository) HasAssignments(ctx context.Context, groupID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("assignments").
		Where("group_id = ?", groupID).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build has assignments query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking group assignments: %w", err)
	}

	return true, nil
}

var groupColumns = []string{
	"g.id", "g.name", "g.description", "g.group_type", "g.max_students",
	"g.is_active", "g.teacher_id", "g.product_id", "g.created_at", "g.updated_at",
}

func (r *GroupRepository) groupSelect() squirrel.SelectBuilder {
	return r.sb.Select(groupColumns...).From("groups g")
}

func (r *GroupRepository) scanGroup(row pgx.Row) (*models.Group, error) {
	var group models.Group
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.GroupType,
		&group.MaxStudents,
		&group.IsActive,
		&group.TeacherID,
		&group.ProductID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error scanning group row: %w", err)
	}

	return &group, nil
}

func (r *GroupRepository) scanGroupRow(rows pgx.Rows) (*models.Group, error) {
	var group models.Group
	err := rows.Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.GroupType,
		&group.MaxStudents,
		&group.IsActive,
		&group.TeacherID,
		&group.ProductID,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning group row: %w", err)
	}

	return &group, nil
}
