package services

// Services defined in this package:
// - AuthService: registration, login and refresh token rotation
// - GroupService: group lifecycle and membership management
// - AssignmentService: assignment lifecycle with derived due-date status
// - SubmissionService: student submissions and grading
// - DashboardService: read-time aggregation for the teacher overview
