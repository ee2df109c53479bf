package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
)

// submissionFixture seeds a teacher, an enrolled student and one assignment
func submissionFixture(env *testEnv, dueDate *time.Time) (teacherID, studentID, assignmentID int64) {
	teacher := env.seedTeacher(1)
	student := env.seedStudent(2, "s1@example.com")
	group := env.seedLessonGroup(teacher.ID, 10)
	env.enroll(group.ID, student.ID)
	assignment := env.seedAssignment(group.ID, dueDate, 100)
	return teacher.ID, student.ID, assignment.ID
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("records a text submission", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)

		resp, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type:    models.SubmissionTypeText,
			Content: "  my essay  ",
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, models.SubmissionStatusPending, resp.Status)
		assert.Equal(t, "my essay", resp.Content)
		assert.False(t, resp.IsLate)
		assert.Nil(t, resp.Grade)
	})

	t.Run("rejects empty text content", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)

		_, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type:    models.SubmissionTypeText,
			Content: "   ",
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("records a url submission", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)

		resp, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type:    models.SubmissionTypeURL,
			Content: "https://docs.example.com/my-work",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.SubmissionTypeURL, resp.Type)
	})

	t.Run("rejects a malformed url", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)

		for _, content := range []string{"not a url", "ftp://host/file", "https://"} {
			_, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
				Type:    models.SubmissionTypeURL,
				Content: content,
			}, nil)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "content=%q", content)
		}
	})

	t.Run("records a docx submission", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)

		file := &multipart.FileHeader{Filename: "homework.docx"}
		resp, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type: models.SubmissionTypeDocx,
		}, file)
		require.NoError(t, err)

		assert.Equal(t, models.DocxContentPlaceholder, resp.Content)
		require.NotNil(t, resp.FileURL)
		assert.Contains(t, *resp.FileURL, "homework.docx")
		assert.Len(t, env.storage.saved, 1)
	})

	t.Run("rejects docx without a file", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)

		_, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type: models.SubmissionTypeDocx,
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects a non-docx file", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)

		file := &multipart.FileHeader{Filename: "homework.pdf"}
		_, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type: models.SubmissionTypeDocx,
		}, file)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects a student who is not enrolled", func(t *testing.T) {
		env := newTestEnv()
		_, _, assignmentID := submissionFixture(env, nil)
		outsider := env.seedStudent(9, "s9@example.com")

		_, err := env.submissionService().Submit(ctx, assignmentID, outsider.ID, &dto.SubmitRequest{
			Type:    models.SubmissionTypeText,
			Content: "sneaky",
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	})

	t.Run("accepts and flags a late submission", func(t *testing.T) {
		env := newTestEnv()
		past := time.Now().Add(-24 * time.Hour)
		_, studentID, assignmentID := submissionFixture(env, &past)

		resp, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type:    models.SubmissionTypeText,
			Content: "better late than never",
		}, nil)
		require.NoError(t, err)
		assert.True(t, resp.IsLate)
	})
}

func TestResubmitReplacesAndResets(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	teacherID, studentID, assignmentID := submissionFixture(env, nil)
	svc := env.submissionService()

	first, err := svc.Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
		Type:    models.SubmissionTypeText,
		Content: "first draft",
	}, nil)
	require.NoError(t, err)

	grade := 80
	graded, err := svc.GradeSubmission(ctx, first.ID, teacherID, &dto.GradeRequest{Grade: &grade})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusGraded, graded.Status)

	second, err := svc.Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
		Type:    models.SubmissionTypeURL,
		Content: "https://docs.example.com/final",
	}, nil)
	require.NoError(t, err)

	// Same row, new content, grade wiped
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.SubmissionTypeURL, second.Type)
	assert.Equal(t, models.SubmissionStatusPending, second.Status)
	assert.Nil(t, second.Grade)
	assert.Nil(t, second.GradedAt)

	current, err := svc.GetMySubmission(ctx, assignmentID, studentID)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com/final", current.Content)
}

func TestGradeSubmission(t *testing.T) {
	ctx := context.Background()

	submit := func(env *testEnv, studentID, assignmentID int64) *dto.SubmissionResponse {
		resp, err := env.submissionService().Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
			Type:    models.SubmissionTypeText,
			Content: "work",
		}, nil)
		require.NoError(t, err)
		return resp
	}

	t.Run("grades within bounds", func(t *testing.T) {
		env := newTestEnv()
		teacherID, studentID, assignmentID := submissionFixture(env, nil)
		submission := submit(env, studentID, assignmentID)

		for _, grade := range []int{0, 55, 100} {
			g := grade
			feedback := "solid effort"
			resp, err := env.submissionService().GradeSubmission(ctx, submission.ID, teacherID, &dto.GradeRequest{
				Grade:    &g,
				Feedback: &feedback,
			})
			require.NoError(t, err, "grade=%d", grade)
			assert.Equal(t, models.SubmissionStatusGraded, resp.Status)
			require.NotNil(t, resp.Grade)
			assert.Equal(t, grade, *resp.Grade)
			assert.NotNil(t, resp.GradedAt)
		}
	})

	t.Run("rejects a grade above total points", func(t *testing.T) {
		env := newTestEnv()
		teacherID, studentID, assignmentID := submissionFixture(env, nil)
		submission := submit(env, studentID, assignmentID)

		grade := 101
		_, err := env.submissionService().GradeSubmission(ctx, submission.ID, teacherID, &dto.GradeRequest{Grade: &grade})
		assert.ErrorIs(t, err, apperrors.ErrGradeOutOfRange)
	})

	t.Run("rejects a negative grade", func(t *testing.T) {
		env := newTestEnv()
		teacherID, studentID, assignmentID := submissionFixture(env, nil)
		submission := submit(env, studentID, assignmentID)

		grade := -1
		_, err := env.submissionService().GradeSubmission(ctx, submission.ID, teacherID, &dto.GradeRequest{Grade: &grade})
		assert.ErrorIs(t, err, apperrors.ErrGradeOutOfRange)
	})

	t.Run("rejects oversized feedback", func(t *testing.T) {
		env := newTestEnv()
		teacherID, studentID, assignmentID := submissionFixture(env, nil)
		submission := submit(env, studentID, assignmentID)

		grade := 50
		feedback := string(make([]byte, models.MaxFeedbackLength+1))
		_, err := env.submissionService().GradeSubmission(ctx, submission.ID, teacherID, &dto.GradeRequest{
			Grade:    &grade,
			Feedback: &feedback,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects a teacher who does not own the group", func(t *testing.T) {
		env := newTestEnv()
		_, studentID, assignmentID := submissionFixture(env, nil)
		other := env.seedTeacher(5)
		submission := submit(env, studentID, assignmentID)

		grade := 50
		_, err := env.submissionService().GradeSubmission(ctx, submission.ID, other.ID, &dto.GradeRequest{Grade: &grade})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("regrading overwrites the previous grade", func(t *testing.T) {
		env := newTestEnv()
		teacherID, studentID, assignmentID := submissionFixture(env, nil)
		submission := submit(env, studentID, assignmentID)
		svc := env.submissionService()

		first := 60
		_, err := svc.GradeSubmission(ctx, submission.ID, teacherID, &dto.GradeRequest{Grade: &first})
		require.NoError(t, err)

		second := 75
		resp, err := svc.GradeSubmission(ctx, submission.ID, teacherID, &dto.GradeRequest{Grade: &second})
		require.NoError(t, err)
		require.NotNil(t, resp.Grade)
		assert.Equal(t, 75, *resp.Grade)
	})
}

func TestGetSubmissionsIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	teacherID, studentID, assignmentID := submissionFixture(env, nil)
	svc := env.submissionService()

	_, err := svc.Submit(ctx, assignmentID, studentID, &dto.SubmitRequest{
		Type:    models.SubmissionTypeText,
		Content: "work",
	}, nil)
	require.NoError(t, err)

	list, err := svc.GetSubmissions(ctx, assignmentID, teacherID)
	require.NoError(t, err)
	assert.Len(t, list.Submissions, 1)
	assert.Equal(t, 1, list.Stats.SubmissionCount)
	assert.Equal(t, 1, list.Stats.PendingCount)
	assert.Equal(t, 0, list.Stats.GradedCount)

	_, err = svc.GetSubmissions(ctx, assignmentID, studentID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetMySubmissionNotFound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	_, studentID, assignmentID := submissionFixture(env, nil)

	_, err := env.submissionService().GetMySubmission(ctx, assignmentID, studentID)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
}
