package dto

// GroupStatsResponse rolls submission counts up to one group
type GroupStatsResponse struct {
	GroupID         int64  `json:"groupId"`
	GroupName       string `json:"groupName"`
	AssignmentCount int    `json:"assignmentCount"`
	SubmissionCount int    `json:"submissionCount"`
	GradedCount     int    `json:"gradedCount"`
	PendingCount    int    `json:"pendingCount"`
}

// TeacherDashboardResponse aggregates a teacher's assignments and submissions.
// Every number is recomputed from the underlying rows at request time.
type TeacherDashboardResponse struct {
	GroupCount            int                  `json:"groupCount"`
	AssignmentCount       int                  `json:"assignmentCount"`
	ActiveAssignments     int                  `json:"activeAssignments"`
	DueSoonAssignments    int                  `json:"dueSoonAssignments"`
	OverdueAssignments    int                  `json:"overdueAssignments"`
	NoDeadlineAssignments int                  `json:"noDeadlineAssignments"`
	SubmissionsReceived   int                  `json:"submissionsReceived"`
	GradedSubmissions     int                  `json:"gradedSubmissions"`
	PendingSubmissions    int                  `json:"pendingSubmissions"`
	Groups                []GroupStatsResponse `json:"groups"`
}
