package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
)

func intPtr(v int) *int { return &v }

func TestCreateGroupCapacityRules(t *testing.T) {
	tests := []struct {
		name        string
		groupType   models.GroupType
		maxStudents *int
		wantErr     error
	}{
		{
			name:        "lesson group with capacity",
			groupType:   models.GroupTypeLesson,
			maxStudents: intPtr(20),
		},
		{
			name:      "lesson group without capacity",
			groupType: models.GroupTypeLesson,
			wantErr:   apperrors.ErrValidationFailed,
		},
		{
			name:      "support group without capacity",
			groupType: models.GroupTypeSupport,
		},
		{
			name:        "support group with capacity",
			groupType:   models.GroupTypeSupport,
			maxStudents: intPtr(20),
			wantErr:     apperrors.ErrValidationFailed,
		},
		{
			name:      "unknown group type",
			groupType: models.GroupType("WORKSHOP"),
			wantErr:   apperrors.ErrInvalidGroupType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			teacher := env.seedTeacher(1)

			resp, err := env.groupService().CreateGroup(context.Background(), teacher.ID, &dto.CreateGroupRequest{
				Name:        "Physics",
				GroupType:   tt.groupType,
				MaxStudents: tt.maxStudents,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.groupType, resp.GroupType)
			assert.Equal(t, teacher.ID, resp.TeacherID)
			assert.True(t, resp.IsActive)
		})
	}
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("enrolls a student", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		student := env.seedStudent(2, "s1@example.com")
		group := env.seedLessonGroup(teacher.ID, 10)

		err := env.groupService().AddMember(ctx, group.ID, teacher.ID, student.ID)
		require.NoError(t, err)

		member, err := env.members.IsMember(ctx, group.ID, student.ID)
		require.NoError(t, err)
		assert.True(t, member)
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		other := env.seedTeacher(5)
		student := env.seedStudent(2, "s1@example.com")
		group := env.seedLessonGroup(teacher.ID, 10)

		err := env.groupService().AddMember(ctx, group.ID, other.ID, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("rejects an inactive group", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		student := env.seedStudent(2, "s1@example.com")
		group := env.seedLessonGroup(teacher.ID, 10)
		group.IsActive = false

		err := env.groupService().AddMember(ctx, group.ID, teacher.ID, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrGroupInactive)
	})

	t.Run("rejects a non-student", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		otherTeacher := env.seedTeacher(3)
		group := env.seedLessonGroup(teacher.ID, 10)

		err := env.groupService().AddMember(ctx, group.ID, teacher.ID, otherTeacher.ID)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects a duplicate enrollment", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		student := env.seedStudent(2, "s1@example.com")
		group := env.seedLessonGroup(teacher.ID, 10)

		require.NoError(t, env.groupService().AddMember(ctx, group.ID, teacher.ID, student.ID))
		err := env.groupService().AddMember(ctx, group.ID, teacher.ID, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
	})

	t.Run("stops at lesson capacity", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		group := env.seedLessonGroup(teacher.ID, 2)
		first := env.seedStudent(2, "s1@example.com")
		second := env.seedStudent(3, "s2@example.com")
		third := env.seedStudent(4, "s3@example.com")

		svc := env.groupService()
		require.NoError(t, svc.AddMember(ctx, group.ID, teacher.ID, first.ID))
		require.NoError(t, svc.AddMember(ctx, group.ID, teacher.ID, second.ID))

		err := svc.AddMember(ctx, group.ID, teacher.ID, third.ID)
		assert.ErrorIs(t, err, apperrors.ErrGroupCapacityExceeded)

		count, err := env.members.GetMemberCountByGroupID(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("support groups are uncapped", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		group := env.seedSupportGroup(teacher.ID)

		svc := env.groupService()
		for i := int64(0); i < 25; i++ {
			student := env.seedStudent(10+i, fmt.Sprintf("s%d@example.com", i))
			require.NoError(t, svc.AddMember(ctx, group.ID, teacher.ID, student.ID))
		}
	})
}

func TestRemoveMemberKeepsSubmissions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	teacher := env.seedTeacher(1)
	student := env.seedStudent(2, "s1@example.com")
	group := env.seedLessonGroup(teacher.ID, 10)
	env.enroll(group.ID, student.ID)
	assignment := env.seedAssignment(group.ID, nil, 100)

	_, err := env.submissions.Upsert(ctx, &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		Type:         models.SubmissionTypeText,
		Content:      "my work",
	})
	require.NoError(t, err)

	require.NoError(t, env.groupService().RemoveMember(ctx, group.ID, teacher.ID, student.ID))

	member, err := env.members.IsMember(ctx, group.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, member)

	// The submission survives the removal
	_, err = env.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, student.ID)
	assert.NoError(t, err)
}

func TestDeleteGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an empty group", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		group := env.seedLessonGroup(teacher.ID, 10)

		require.NoError(t, env.groupService().DeleteGroup(ctx, group.ID, teacher.ID))
		assert.Contains(t, env.groups.deleted, group.ID)
	})

	t.Run("refuses while members remain", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		student := env.seedStudent(2, "s1@example.com")
		group := env.seedLessonGroup(teacher.ID, 10)
		env.enroll(group.ID, student.ID)

		err := env.groupService().DeleteGroup(ctx, group.ID, teacher.ID)
		assert.ErrorIs(t, err, apperrors.ErrGroupHasDependents)
	})

	t.Run("refuses while assignments remain", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		group := env.seedLessonGroup(teacher.ID, 10)
		env.groups.hasAssignments[group.ID] = true

		err := env.groupService().DeleteGroup(ctx, group.ID, teacher.ID)
		assert.ErrorIs(t, err, apperrors.ErrGroupHasDependents)
	})

	t.Run("refuses a non-owner", func(t *testing.T) {
		env := newTestEnv()
		teacher := env.seedTeacher(1)
		other := env.seedTeacher(5)
		group := env.seedLessonGroup(teacher.ID, 10)

		err := env.groupService().DeleteGroup(ctx, group.ID, other.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestGetMembersVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	teacher := env.seedTeacher(1)
	enrolled := env.seedStudent(2, "s1@example.com")
	outsider := env.seedStudent(3, "s2@example.com")
	group := env.seedLessonGroup(teacher.ID, 10)
	env.enroll(group.ID, enrolled.ID)

	svc := env.groupService()

	members, err := svc.GetMembers(ctx, group.ID, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	members, err = svc.GetMembers(ctx, group.ID, enrolled.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = svc.GetMembers(ctx, group.ID, outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetGroupByIDHidesRosterFromOutsiders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	teacher := env.seedTeacher(1)
	enrolled := env.seedStudent(2, "s1@example.com")
	outsider := env.seedStudent(3, "s2@example.com")
	group := env.seedLessonGroup(teacher.ID, 10)
	env.enroll(group.ID, enrolled.ID)

	svc := env.groupService()

	detail, err := svc.GetGroupByID(ctx, group.ID, teacher.ID)
	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, enrolled.ID, detail.Members[0].StudentID)

	detail, err = svc.GetGroupByID(ctx, group.ID, enrolled.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Members, 1)

	detail, err = svc.GetGroupByID(ctx, group.ID, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Members)
	assert.Equal(t, group.ID, detail.ID)
	assert.Equal(t, 1, detail.MemberCount)
}

func TestUpdateGroupKeepsTypeAndCapacity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	teacher := env.seedTeacher(1)
	group := env.seedLessonGroup(teacher.ID, 15)

	inactive := false
	resp, err := env.groupService().UpdateGroup(ctx, group.ID, teacher.ID, &dto.UpdateGroupRequest{
		Name:        "Algebra II",
		Description: "second term",
		IsActive:    &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Algebra II", resp.Name)
	assert.False(t, resp.IsActive)
	assert.Equal(t, models.GroupTypeLesson, resp.GroupType)
	require.NotNil(t, resp.MaxStudents)
	assert.Equal(t, 15, *resp.MaxStudents)
}
