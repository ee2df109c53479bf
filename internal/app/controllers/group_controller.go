package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/app/services"
	"github.com/adelekeoti/edusiastic-backend/internal/middleware"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/helpers"
)

// GroupController handles group and membership related operations
type GroupController struct {
	groupService services.GroupService
	logger       zerolog.Logger
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService, logger zerolog.Logger) *GroupController {
	return &GroupController{
		groupService: groupService,
		logger:       logger,
	}
}

// GetAllGroups handles retrieving groups with optional filtering
// @Summary Get all groups
// @Description Retrieves a list of groups with optional filtering and pagination
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param teacherId query int false "Filter by owning teacher ID"
// @Param search query string false "Search by name"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param pageSize query int false "Page size (default: 10, max: 100)" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.GroupListResponse} "Groups retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups [get]
func (c *GroupController) GetAllGroups(ctx *gin.Context) {
	var filter dto.GroupFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.NewBindingErrorDetail(err)))
		return
	}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(ctx)

	response, err := c.groupService.GetAllGroups(ctx, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetGroupByID handles retrieving a specific group with its member roster
// @Summary Get group by ID
// @Description Retrieves a group. The member list is included for the owning teacher and enrolled students.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.GroupDetailResponse} "Group retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	response, err := c.groupService.GetGroupByID(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateGroup handles creating a new group
// @Summary Create a group
// @Description Creates a LESSON or SUPPORT group owned by the calling teacher. LESSON groups require maxStudents.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Group information"
// @Success 201 {object} dto.APIResponse{data=dto.GroupResponse} "Group created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a teacher"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.groupService.CreateGroup(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// UpdateGroup handles updating an existing group
// @Summary Update a group
// @Description Updates a group's name, description and active flag. Only the owning teacher may update.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.UpdateGroupRequest true "Updated group information"
// @Success 200 {object} dto.APIResponse{data=dto.GroupResponse} "Group updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.groupService.UpdateGroup(ctx, id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteGroup handles deleting a group
// @Summary Delete a group
// @Description Deletes a group that has no members and no assignments. Only the owning teacher may delete.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse "Group deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Group still has members or assignments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.groupService.DeleteGroup(ctx, id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Group deleted successfully"))
}

// AddMember handles enrolling a student into a group
// @Summary Add a group member
// @Description Enrolls a student into the group. LESSON groups reject the enrollment once maxStudents is reached.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.AddMemberRequest true "Student to enroll"
// @Success 201 {object} dto.APIResponse "Student enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the group"
// @Failure 404 {object} dto.ErrorResponse "Group or student not found"
// @Failure 409 {object} dto.ErrorResponse "Group at capacity or student already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/members [post]
func (c *GroupController) AddMember(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.groupService.AddMember(ctx, id, userID, req.StudentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Student enrolled successfully"))
}

// RemoveMember handles removing a student from a group
// @Summary Remove a group member
// @Description Removes a student from the group. The student's existing submissions are kept.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse "Student removed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the group"
// @Failure 404 {object} dto.ErrorResponse "Group or membership not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/members/{studentId} [delete]
func (c *GroupController) RemoveMember(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	if err := c.groupService.RemoveMember(ctx, id, userID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Student removed successfully"))
}

// GetMembers handles listing a group's members
// @Summary Get group members
// @Description Lists the group's members in enrollment order. Visible to the owning teacher and enrolled students.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupMemberResponse} "Members retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller may not view this roster"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/members [get]
func (c *GroupController) GetMembers(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.groupService.GetMembers(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
