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
)

// SubmissionRepository handles database operations for submissions
type SubmissionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert writes the current submission for an (assignment, student) pair.
// The ON CONFLICT clause makes concurrent submissions from the same student
// serialize onto a single row; a re-submission overwrites the previous content
// and resets the row to PENDING, dropping any stale grade and feedback.
func (r *SubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	query := `
		INSERT INTO submissions (assignment_id, student_id, type, content, file_url, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, 'PENDING', NOW())
		ON CONFLICT (assignment_id, student_id) DO UPDATE SET
			type = EXCLUDED.type,
			content = EXCLUDED.content,
			file_url = EXCLUDED.file_url,
			status = 'PENDING',
			grade = NULL,
			feedback = NULL,
			graded_at = NULL,
			submitted_at = NOW()
		RETURNING id, assignment_id, student_id, type, content, file_url, status, grade, feedback, submitted_at, graded_at`

	var result models.Submission
	err := r.db.QueryRow(ctx, query,
		submission.AssignmentID,
		submission.StudentID,
		submission.Type,
		submission.Content,
		submission.FileURL,
	).Scan(
		&result.ID,
		&result.AssignmentID,
		&result.StudentID,
		&result.Type,
		&result.Content,
		&result.FileURL,
		&result.Status,
		&result.Grade,
		&result.Feedback,
		&result.SubmittedAt,
		&result.GradedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error upserting submission: %w", err)
	}

	return &result, nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	sql, args, err := r.submissionSelect().Where("s.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get submission query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying submission: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading submission row: %w", err)
		}
		return nil, apperrors.ErrSubmissionNotFound
	}

	return r.scanSubmission(rows)
}

// GetByAssignmentAndStudent retrieves the current submission for a pair
func (r *SubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	sql, args, err := r.submissionSelect().
		Where("s.assignment_id = ? AND s.student_id = ?", assignmentID, studentID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get submission query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying submission: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading submission row: %w", err)
		}
		return nil, apperrors.ErrSubmissionNotFound
	}

	return r.scanSubmission(rows)
}

// GetByAssignmentID retrieves all submissions for an assignment, most recent
// first with id as the stable tie-break
func (r *SubmissionRepository) GetByAssignmentID(ctx context.Context, assignmentID int64) ([]*models.Submission, error) {
	sql, args, err := r.submissionSelect().
		Where("s.assignment_id = ?", assignmentID).
		OrderBy("s.submitted_at DESC", "s.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list submissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		submission, err := r.scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, nil
}

// Grade marks a submission graded, storing the grade and feedback and
// stamping graded_at. Regrading simply runs the same update again.
func (r *SubmissionRepository) Grade(ctx context.Context, submissionID int64, grade int, feedback *string) error {
	sql, args, err := r.sb.Update("submissions").
		Set("status", models.SubmissionStatusGraded).
		Set("grade", grade).
		Set("feedback", feedback).
		Set("graded_at", squirrel.Expr("NOW()")).
		Where("id = ?", submissionID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build grade query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error grading submission: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}

	return nil
}

// GetMaxGradeByAssignmentID returns the highest grade issued for an
// assignment, or nil when none of its submissions are graded yet.
func (r *SubmissionRepository) GetMaxGradeByAssignmentID(ctx context.Context, assignmentID int64) (*int, error) {
	query := `SELECT MAX(grade) FROM submissions WHERE assignment_id = $1`

	var maxGrade *int
	if err := r.db.QueryRow(ctx, query, assignmentID).Scan(&maxGrade); err != nil {
		return nil, fmt.Errorf("error getting max grade: %w", err)
	}
	return maxGrade, nil
}

// GetStatsByAssignmentID computes submission counts for one assignment
func (r *SubmissionRepository) GetStatsByAssignmentID(ctx context.Context, assignmentID int64) (*models.AssignmentStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'GRADED')
		FROM submissions
		WHERE assignment_id = $1`

	stats := models.AssignmentStats{AssignmentID: assignmentID}
	if err := r.db.QueryRow(ctx, query, assignmentID).Scan(&stats.SubmissionCount, &stats.GradedCount); err != nil {
		return nil, fmt.Errorf("error computing assignment stats: %w", err)
	}

	stats.PendingCount = stats.SubmissionCount - stats.GradedCount
	return &stats, nil
}

// GetStatsByAssignmentIDs computes submission counts for multiple assignments
func (r *SubmissionRepository) GetStatsByAssignmentIDs(ctx context.Context, assignmentIDs []int64) (map[int64]*models.AssignmentStats, error) {
	statsByID := make(map[int64]*models.AssignmentStats)
	if len(assignmentIDs) == 0 {
		return statsByID, nil
	}

	sql, args, err := r.sb.Select(
		"assignment_id",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'GRADED')",
	).
		From("submissions").
		Where(squirrel.Eq{"assignment_id": assignmentIDs}).
		GroupBy("assignment_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build assignment stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error computing assignment stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stats models.AssignmentStats
		if err := rows.Scan(&stats.AssignmentID, &stats.SubmissionCount, &stats.GradedCount); err != nil {
			return nil, fmt.Errorf("error scanning stats row: %w", err)
		}
		stats.PendingCount = stats.SubmissionCount - stats.GradedCount
		statsByID[stats.AssignmentID] = &stats
	}

	return statsByID, nil
}

func (r *SubmissionRepository) submissionSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.assignment_id", "s.student_id", "s.type", "s.content",
		"s.file_url", "s.status", "s.grade", "s.feedback", "s.submitted_at", "s.graded_at",
		"u.email", "u.first_name", "u.last_name",
	).
		From("submissions s").
		Join("users u ON u.id = s.student_id")
}

func (r *SubmissionRepository) scanSubmission(rows pgx.Rows) (*models.Submission, error) {
	var submission models.Submission
	var student models.User
	err := rows.Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.StudentID,
		&submission.Type,
		&submission.Content,
		&submission.FileURL,
		&submission.Status,
		&submission.Grade,
		&submission.Feedback,
		&submission.SubmittedAt,
		&submission.GradedAt,
		&student.Email,
		&student.FirstName,
		&student.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error scanning submission row: %w", err)
	}

	student.ID = submission.StudentID
	submission.Student = &student
	return &submission, nil
}
