package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/app/services"
	"github.com/adelekeoti/edusiastic-backend/internal/middleware"
)

// SubmissionController handles submission and grading related operations
type SubmissionController struct {
	submissionService services.SubmissionService
	logger            zerolog.Logger
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissionService services.SubmissionService, logger zerolog.Logger) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
		logger:            logger,
	}
}

// Submit handles a student submitting work for an assignment
// @Summary Submit work for an assignment
// @Description Records the calling student's submission. TEXT and URL submissions carry their payload in the content field; DOCX submissions upload the document in the file field. Submitting again replaces the previous submission and resets it to pending.
// @Tags submissions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param type formData string true "Submission type" Enums(TEXT, URL, DOCX)
// @Param content formData string false "Text content or URL"
// @Param file formData file false "Document for DOCX submissions"
// @Success 201 {object} dto.APIResponse{data=dto.SubmissionResponse} "Submission recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid submission payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not enrolled in the assignment's group"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.NewBindingErrorDetail(err)))
		return
	}

	var file *multipart.FileHeader
	if uploaded, err := ctx.FormFile("file"); err == nil {
		file = uploaded
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Could not read uploaded file").
				WithDetails(err.Error())))
		return
	}

	response, err := c.submissionService.Submit(ctx, id, userID, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetSubmissions handles listing all submissions for an assignment
// @Summary Get an assignment's submissions
// @Description Lists every submission for the assignment, newest first, with graded and pending counts. Only the owning teacher may call this.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionListResponse} "Submissions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the assignment's group"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/submissions [get]
func (c *SubmissionController) GetSubmissions(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.submissionService.GetSubmissions(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetMySubmission handles a student retrieving their own submission
// @Summary Get my submission
// @Description Retrieves the calling student's submission for the assignment
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionResponse} "Submission retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Assignment or submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/submissions/my [get]
func (c *SubmissionController) GetMySubmission(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.submissionService.GetMySubmission(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GradeSubmission handles grading a submission
// @Summary Grade a submission
// @Description Assigns a grade and optional feedback to a submission. The grade must fall within 0 and the assignment's totalPoints. Grading again overwrites the previous grade.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.GradeRequest true "Grade and optional feedback"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionResponse} "Submission graded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or grade out of range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the assignment's group"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions/{id}/grade [post]
func (c *SubmissionController) GradeSubmission(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.GradeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	response, err := c.submissionService.GradeSubmission(ctx, id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
