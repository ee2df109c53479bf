package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes
// the 400 response itself and returns false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// currentUserID reads the authenticated user's ID set by the JWT middleware.
// On failure it writes the 401 response itself and returns false.
func currentUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}

// bindJSON binds the JSON body and writes the 400 response on failure
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.NewBindingErrorDetail(err)))
		return false
	}
	return true
}
