package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/auth"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/validation"
)

// AuthService handles registration, login and refresh token rotation
type AuthService struct {
	userStore  UserStore
	tokenStore TokenStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userStore UserStore,
	tokenStore TokenStore,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userStore:  userStore,
		tokenStore: tokenStore,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validatePassword checks if password meets requirements
func (s *AuthService) validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters long", validation.PasswordMinLength))
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasLetter {
		return apperrors.NewValidationError("password must contain at least one letter")
	}
	if !hasDigit {
		return apperrors.NewValidationError("password must contain at least one digit")
	}

	return nil
}

// validName bounds a person name's length
func validName(name string) bool {
	return validation.NewStringValidation(name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate()
}

// Register creates a new account and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewValidationError("invalid email format")
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if !validName(firstName) || !validName(lastName) {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"first and last name must be between %d and %d characters",
			validation.NameMinLength, validation.NameMaxLength))
	}

	exists, err := s.userStore.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
		RoleType:  req.RoleType,
		IsActive:  true,
	}

	id, err := s.userStore.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info().
		Int64("userId", id).
		Str("role", string(user.RoleType)).
		Msg("User registered")

	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userStore.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a wrong password so accounts cannot be probed
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrPermissionDenied
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userStore.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to record login time")
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token, revoking the presented one
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	userID, err := s.tokenStore.GetTokenUser(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.tokenStore.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// GetProfile returns the user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userStore.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := dto.FromUser(user)
	return &profile, nil
}

// Logout revokes every refresh token the user holds
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.tokenStore.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("error revoking user tokens: %w", err)
	}

	s.logger.Info().Int64("userId", userID).Msg("User logged out")
	return nil
}

// issueTokens builds the token pair and persists the refresh token
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenStore.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             expiresIn,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresIn,
		},
		User: dto.FromUser(user),
	}, nil
}
