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

// AssignmentRepository handles database operations for assignments
type AssignmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new assignment and returns its ID
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) (int64, error) {
	now := time.Now()

	sql, args, err := r.sb.Insert("assignments").
		Columns("group_id", "title", "description", "due_date", "total_points", "created_at", "updated_at").
		Values(assignment.GroupID, assignment.Title, assignment.Description, assignment.DueDate, assignment.TotalPoints, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create assignment query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating assignment: %w", err)
	}

	return id, nil
}

// GetByID retrieves an assignment by ID, including its owning group
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	sql, args, err := r.assignmentSelect().Where("a.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assignment query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying assignment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading assignment row: %w", err)
		}
		return nil, apperrors.ErrAssignmentNotFound
	}

	return r.scanAssignment(rows)
}

// GetByGroupID retrieves all assignments for a group, newest first
func (r *AssignmentRepository) GetByGroupID(ctx context.Context, groupID int64) ([]*models.Assignment, error) {
	sql, args, err := r.assignmentSelect().
		Where("a.group_id = ?", groupID).
		OrderBy("a.created_at DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list assignments query: %w", err)
	}

	return r.queryAssignments(ctx, sql, args)
}

// GetByTeacherID retrieves every assignment across all of a teacher's groups
func (r *AssignmentRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*models.Assignment, error) {
	sql, args, err := r.assignmentSelect().
		Where("g.teacher_id = ?", teacherID).
		OrderBy("a.created_at DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build teacher assignments query: %w", err)
	}

	return r.queryAssignments(ctx, sql, args)
}

// Update updates an assignment's mutable fields
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	sql, args, err := r.sb.Update("assignments").
		Set("title", assignment.Title).
		Set("description", assignment.Description).
		Set("due_date", assignment.DueDate).
		Set("total_points", assignment.TotalPoints).
		Set("updated_at", time.Now()).
		Where("id = ?", assignment.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update assignment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating assignment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}

	return nil
}

// Delete removes an assignment. Its submissions go with it via the
// ON DELETE CASCADE constraint, so no orphaned submissions survive.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("assignments").Where("id = ?", id).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete assignment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}

	return nil
}

func (r *AssignmentRepository) assignmentSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.group_id", "a.title", "a.description", "a.due_date",
		"a.total_points", "a.created_at", "a.updated_at",
		"g.name", "g.group_type", "g.teacher_id",
	).
		From("assignments a").
		Join("groups g ON g.id = a.group_id")
}

func (r *AssignmentRepository) queryAssignments(ctx context.Context, sql string, args []interface{}) ([]*models.Assignment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		assignment, err := r.scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}

func (r *AssignmentRepository) scanAssignment(rows pgx.Rows) (*models.Assignment, error) {
	var assignment models.Assignment
	var group models.Group
	err := rows.Scan(
		&assignment.ID,
		&assignment.GroupID,
		&assignment.Title,
		&assignment.Description,
		&assignment.DueDate,
		&assignment.TotalPoints,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
		&group.Name,
		&group.GroupType,
		&group.TeacherID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error scanning assignment row: %w", err)
	}

	group.ID = assignment.GroupID
	assignment.Group = &group
	return &assignment, nil
}
