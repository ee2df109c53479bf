package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/adelekeoti/edusiastic-backend/internal/app/models"
	appRepos "github.com/adelekeoti/edusiastic-backend/internal/app/repositories"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
	pkgAuth "github.com/adelekeoti/edusiastic-backend/internal/pkg/auth"
)

// CreateDefaultData creates demo accounts and a demo lesson group so a fresh
// install is immediately usable. Existing rows are left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	groupRepo := appRepos.NewGroupRepository(dbPool)
	memberRepo := appRepos.NewGroupMemberRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	teacherID, err := ensureUser(ctx, userRepo, &appModels.User{
		Email:     "teacher@edusiastic.app",
		FirstName: "Demo",
		LastName:  "Teacher",
		RoleType:  appModels.RoleTeacher,
	}, "Teacher123", lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	studentIDs := make([]int64, 0, 2)
	for _, account := range []struct {
		email, first, last string
	}{
		{"student1@edusiastic.app", "Demo", "StudentOne"},
		{"student2@edusiastic.app", "Demo", "StudentTwo"},
	} {
		id, err := ensureUser(ctx, userRepo, &appModels.User{
			Email:     account.email,
			FirstName: account.first,
			LastName:  account.last,
			RoleType:  appModels.RoleStudent,
		}, "Student123", lgr)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		studentIDs = append(studentIDs, id)
	}

	if teacherID == 0 {
		return finalErr
	}

	// One demo lesson group with the demo students enrolled
	existing, _, err := groupRepo.GetAll(ctx, &teacherID, nil, 1, 1)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing demo groups")
		return errors.Join(finalErr, err)
	}
	if len(existing) > 0 {
		return finalErr
	}

	maxStudents := 10
	groupID, err := groupRepo.Create(ctx, &appModels.Group{
		Name:        "Demo Math Lessons",
		Description: "Sample lesson group created on first start",
		GroupType:   appModels.GroupTypeLesson,
		MaxStudents: &maxStudents,
		IsActive:    true,
		TeacherID:   teacherID,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo group")
		return errors.Join(finalErr, err)
	}

	for _, studentID := range studentIDs {
		if _, err := memberRepo.AddMember(ctx, groupID, studentID); err != nil &&
			!errors.Is(err, apperrors.ErrAlreadyMember) {
			lgr.Error().Err(err).Int64("studentId", studentID).Msg("Error enrolling demo student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int64("groupId", groupID).Msg("Demo data created")
	return finalErr
}

// ensureUser creates the account if its email is free and returns its ID
// either way.
func ensureUser(ctx context.Context, userRepo *appRepos.UserRepository, user *appModels.User, password string, lgr zerolog.Logger) (int64, error) {
	hashed, err := pkgAuth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	user.Password = hashed
	user.IsActive = true

	id, err := userRepo.CreateUser(ctx, user)
	if err == nil {
		lgr.Info().Str("email", user.Email).Msg("Demo account created")
		return id, nil
	}
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error creating demo account")
		return 0, err
	}

	existing, err := userRepo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}
