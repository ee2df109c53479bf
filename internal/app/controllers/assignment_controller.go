package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/app/services"
	"github.com/adelekeoti/edusiastic-backend/internal/middleware"
)

// AssignmentController handles assignment related operations
type AssignmentController struct {
	assignmentService services.AssignmentService
	logger            zerolog.Logger
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService services.AssignmentService, logger zerolog.Logger) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// CreateAssignment handles creating a new assignment
// @Summary Create an assignment
// @Description Creates an assignment in a LESSON group owned by the calling teacher. The due date, when given, must lie in the future.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAssignmentRequest true "Assignment information"
// @Success 201 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request, due date in the past, or group is not a LESSON group"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.assignmentService.CreateAssignment(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetAssignmentByID handles retrieving a specific assignment
// @Summary Get assignment by ID
// @Description Retrieves an assignment with its derived status. The owning teacher also receives submission stats.
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not enrolled in the assignment's group"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id} [get]
func (c *AssignmentController) GetAssignmentByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.assignmentService.GetAssignmentByID(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetGroupAssignments handles listing a group's assignments
// @Summary Get a group's assignments
// @Description Lists the assignments of a group for its teacher or an enrolled student
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AssignmentResponse} "Assignments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not enrolled in the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/assignments [get]
func (c *AssignmentController) GetGroupAssignments(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.assignmentService.GetAssignmentsByGroup(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateAssignment handles updating an existing assignment
// @Summary Update an assignment
// @Description Updates an assignment owned by the calling teacher. A changed due date must lie in the future.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.UpdateAssignmentRequest true "Updated assignment information"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the assignment's group"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id} [put]
func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.assignmentService.UpdateAssignment(ctx, id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteAssignment handles deleting an assignment
// @Summary Delete an assignment
// @Description Deletes an assignment together with all its submissions
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse "Assignment deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the assignment's group"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.DeleteAssignment(ctx, id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Assignment deleted successfully"))
}
