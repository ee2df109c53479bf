package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/logger"
)

// HandleAPIError translates service errors into HTTP responses. Every
// controller funnels its service errors through here so status codes and
// error codes stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Validation and malformed input
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidSubmission):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)

	case errors.Is(err, apperrors.ErrDueDateInPast):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)

	case errors.Is(err, apperrors.ErrInvalidGroupType):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidGroupType, err)

	case errors.Is(err, apperrors.ErrGradeOutOfRange):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeGradeOutOfRange, err)

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err)
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err)
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, err)

	// Authorization
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, err)
	case errors.Is(err, apperrors.ErrNotEnrolled):
		respondError(c, http.StatusForbidden, dto.ErrorCodeNotEnrolled, err)
	case errors.Is(err, apperrors.ErrGroupInactive):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, err)

	// Missing resources
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrGroupNotFound),
		errors.Is(err, apperrors.ErrMembershipNotFound),
		errors.Is(err, apperrors.ErrAssignmentNotFound),
		errors.Is(err, apperrors.ErrSubmissionNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)

	// Conflicts
	case errors.Is(err, apperrors.ErrGroupCapacityExceeded):
		respondError(c, http.StatusConflict, dto.ErrorCodeCapacityExceeded, err)
	case errors.Is(err, apperrors.ErrAlreadyMember):
		respondError(c, http.StatusConflict, dto.ErrorCodeAlreadyMember, err)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err)
	case errors.Is(err, apperrors.ErrGroupHasDependents),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeConflict, err)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

// respondError writes the standard error envelope. The error's own message
// is exposed; internal wrapping detail stays in the logs.
func respondError(c *gin.Context, status int, code dto.ErrorCode, err error) {
	message := err.Error()

	var custom *apperrors.CustomError
	detail := dto.NewErrorDetail(code, message)
	if errors.As(err, &custom) && custom.Details != nil {
		detail = detail.WithDetails(custom.Details)
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}
