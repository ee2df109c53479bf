package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/app/services"
	"github.com/adelekeoti/edusiastic-backend/internal/middleware"
)

// DashboardController handles teacher overview operations
type DashboardController struct {
	dashboardService services.DashboardService
	logger           zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetTeacherDashboard handles retrieving the teacher overview
// @Summary Get teacher dashboard
// @Description Aggregates the calling teacher's groups, assignment statuses and submission counts. Everything is recomputed from current rows on each call.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeacherDashboardResponse} "Dashboard retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a teacher"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/teacher [get]
func (c *DashboardController) GetTeacherDashboard(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	response, err := c.dashboardService.GetTeacherDashboard(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
