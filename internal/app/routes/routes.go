package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/adelekeoti/edusiastic-backend/internal/app/controllers"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
	"github.com/adelekeoti/edusiastic-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	groupController *controllers.GroupController,
	assignmentController *controllers.AssignmentController,
	submissionController *controllers.SubmissionController,
	dashboardController *controllers.DashboardController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.Me)

		// Group routes
		groups := authenticated.Group("/groups")
		{
			groups.GET("", groupController.GetAllGroups)
			groups.GET("/:id", groupController.GetGroupByID)
			groups.GET("/:id/members", groupController.GetMembers)
			groups.GET("/:id/assignments", assignmentController.GetGroupAssignments)

			// Group and roster management is teacher-only
			groupsTeacherProtected := groups.Group("")
			groupsTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				groupsTeacherProtected.POST("", groupController.CreateGroup)
				groupsTeacherProtected.PUT("/:id", groupController.UpdateGroup)
				groupsTeacherProtected.DELETE("/:id", groupController.DeleteGroup)
				groupsTeacherProtected.POST("/:id/members", groupController.AddMember)
				groupsTeacherProtected.DELETE("/:id/members/:studentId", groupController.RemoveMember)
			}
		}

		// Assignment routes
		assignments := authenticated.Group("/assignments")
		{
			assignments.GET("/:id", assignmentController.GetAssignmentByID)

			// Students submit and review their own work
			assignmentsStudentProtected := assignments.Group("")
			assignmentsStudentProtected.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				assignmentsStudentProtected.POST("/:id/submissions", submissionController.Submit)
				assignmentsStudentProtected.GET("/:id/submissions/my", submissionController.GetMySubmission)
			}

			// Assignment lifecycle and grading views are teacher-only
			assignmentsTeacherProtected := assignments.Group("")
			assignmentsTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				assignmentsTeacherProtected.POST("", assignmentController.CreateAssignment)
				assignmentsTeacherProtected.PUT("/:id", assignmentController.UpdateAssignment)
				assignmentsTeacherProtected.DELETE("/:id", assignmentController.DeleteAssignment)
				assignmentsTeacherProtected.GET("/:id/submissions", submissionController.GetSubmissions)
			}
		}

		// Grading routes
		submissions := authenticated.Group("/submissions")
		submissions.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
		{
			submissions.POST("/:id/grade", submissionController.GradeSubmission)
		}

		// Dashboard routes
		dashboard := authenticated.Group("/dashboard")
		dashboard.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
		{
			dashboard.GET("/teacher", dashboardController.GetTeacherDashboard)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
