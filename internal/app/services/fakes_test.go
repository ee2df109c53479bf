package services

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/auth"
	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/apperrors"
)

// In-memory store fakes. They mirror the repository semantics the services
// rely on (not-found sentinels, membership uniqueness, lesson capacity,
// upsert-resets-to-pending) so the services can be exercised without a
// database.

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64

	lastLoginCalls []int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	} else if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	f.add(user)
	return user.ID, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, userID int64) error {
	f.lastLoginCalls = append(f.lastLoginCalls, userID)
	return nil
}

type storedToken struct {
	userID    int64
	expiresAt time.Time
	revoked   bool
}

type fakeTokenStore struct {
	tokens map[string]*storedToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*storedToken)}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	f.tokens[token] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeTokenStore) GetTokenUser(_ context.Context, token string) (int64, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if stored.revoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if stored.expiresAt.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return stored.userID, nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	stored, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for _, stored := range f.tokens {
		if stored.userID == userID {
			stored.revoked = true
		}
	}
	return nil
}

type fakeGroupStore struct {
	groups         map[int64]*models.Group
	nextID         int64
	hasAssignments map[int64]bool
	deleted        []int64
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{
		groups:         make(map[int64]*models.Group),
		nextID:         1,
		hasAssignments: make(map[int64]bool),
	}
}

func (f *fakeGroupStore) add(group *models.Group) *models.Group {
	if group.ID == 0 {
		group.ID = f.nextID
		f.nextID++
	} else if group.ID >= f.nextID {
		f.nextID = group.ID + 1
	}
	f.groups[group.ID] = group
	return group
}

func (f *fakeGroupStore) Create(_ context.Context, group *models.Group) (int64, error) {
	f.add(group)
	return group.ID, nil
}

func (f *fakeGroupStore) GetByID(_ context.Context, id int64) (*models.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	return group, nil
}

func (f *fakeGroupStore) GetAll(_ context.Context, teacherID *int64, _ *string, _, _ int) ([]*models.Group, int64, error) {
	var out []*models.Group
	for _, group := range f.groups {
		if teacherID != nil && group.TeacherID != *teacherID {
			continue
		}
		out = append(out, group)
	}
	return out, int64(len(out)), nil
}

func (f *fakeGroupStore) GetByTeacherID(_ context.Context, teacherID int64) ([]*models.Group, error) {
	var out []*models.Group
	for id := int64(1); id < f.nextID; id++ {
		if group, ok := f.groups[id]; ok && group.TeacherID == teacherID {
			out = append(out, group)
		}
	}
	return out, nil
}

func (f *fakeGroupStore) Update(_ context.Context, group *models.Group) error {
	if _, ok := f.groups[group.ID]; !ok {
		return apperrors.ErrGroupNotFound
	}
	f.groups[group.ID] = group
	return nil
}

func (f *fakeGroupStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.groups[id]; !ok {
		return apperrors.ErrGroupNotFound
	}
	delete(f.groups, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGroupStore) HasAssignments(_ context.Context, groupID int64) (bool, error) {
	return f.hasAssignments[groupID], nil
}

type fakeMemberStore struct {
	groups  *fakeGroupStore
	members map[int64][]*models.GroupMember
	nextID  int64
}

func newFakeMemberStore(groups *fakeGroupStore) *fakeMemberStore {
	return &fakeMemberStore{
		groups:  groups,
		members: make(map[int64][]*models.GroupMember),
		nextID:  1,
	}
}

func (f *fakeMemberStore) AddMember(_ context.Context, groupID, studentID int64) (int64, error) {
	for _, member := range f.members[groupID] {
		if member.StudentID == studentID {
			return 0, apperrors.ErrAlreadyMember
		}
	}
	group, ok := f.groups.groups[groupID]
	if !ok {
		return 0, apperrors.ErrGroupNotFound
	}
	if group.GroupType == models.GroupTypeLesson && group.MaxStudents != nil &&
		len(f.members[groupID]) >= *group.MaxStudents {
		return 0, apperrors.ErrGroupCapacityExceeded
	}

	member := &models.GroupMember{
		ID:        f.nextID,
		GroupID:   groupID,
		StudentID: studentID,
		JoinedAt:  time.Now(),
	}
	f.nextID++
	f.members[groupID] = append(f.members[groupID], member)
	return member.ID, nil
}

func (f *fakeMemberStore) RemoveMember(_ context.Context, groupID, studentID int64) error {
	members := f.members[groupID]
	for i, member := range members {
		if member.StudentID == studentID {
			f.members[groupID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrMembershipNotFound
}

func (f *fakeMemberStore) GetMembersByGroupID(_ context.Context, groupID int64) ([]*models.GroupMember, error) {
	return f.members[groupID], nil
}

func (f *fakeMemberStore) GetMemberCountByGroupID(_ context.Context, groupID int64) (int, error) {
	return len(f.members[groupID]), nil
}

func (f *fakeMemberStore) GetMemberCountsByGroupIDs(_ context.Context, groupIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(groupIDs))
	for _, id := range groupIDs {
		counts[id] = len(f.members[id])
	}
	return counts, nil
}

func (f *fakeMemberStore) IsMember(_ context.Context, groupID, studentID int64) (bool, error) {
	for _, member := range f.members[groupID] {
		if member.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type fakeAssignmentStore struct {
	groups      *fakeGroupStore
	assignments map[int64]*models.Assignment
	nextID      int64
	deleted     []int64
}

func newFakeAssignmentStore(groups *fakeGroupStore) *fakeAssignmentStore {
	return &fakeAssignmentStore{
		groups:      groups,
		assignments: make(map[int64]*models.Assignment),
		nextID:      1,
	}
}

func (f *fakeAssignmentStore) add(assignment *models.Assignment) *models.Assignment {
	if assignment.ID == 0 {
		assignment.ID = f.nextID
		f.nextID++
	} else if assignment.ID >= f.nextID {
		f.nextID = assignment.ID + 1
	}
	f.assignments[assignment.ID] = assignment
	return assignment
}

func (f *fakeAssignmentStore) Create(_ context.Context, assignment *models.Assignment) (int64, error) {
	f.add(assignment)
	return assignment.ID, nil
}

func (f *fakeAssignmentStore) GetByID(_ context.Context, id int64) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	// The repository joins the owning group onto the row
	copied := *assignment
	copied.Group = f.groups.groups[assignment.GroupID]
	return &copied, nil
}

func (f *fakeAssignmentStore) GetByGroupID(_ context.Context, groupID int64) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for id := int64(1); id < f.nextID; id++ {
		if assignment, ok := f.assignments[id]; ok && assignment.GroupID == groupID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) GetByTeacherID(_ context.Context, teacherID int64) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for id := int64(1); id < f.nextID; id++ {
		assignment, ok := f.assignments[id]
		if !ok {
			continue
		}
		if group, ok := f.groups.groups[assignment.GroupID]; ok && group.TeacherID == teacherID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) Update(_ context.Context, assignment *models.Assignment) error {
	if _, ok := f.assignments[assignment.ID]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	copied := *assignment
	copied.Group = nil
	f.assignments[assignment.ID] = &copied
	return nil
}

func (f *fakeAssignmentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.assignments[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(f.assignments, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSubmissionStore struct {
	submissions map[int64]*models.Submission
	nextID      int64
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{submissions: make(map[int64]*models.Submission), nextID: 1}
}

func (f *fakeSubmissionStore) Upsert(_ context.Context, submission *models.Submission) (*models.Submission, error) {
	for _, existing := range f.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.StudentID == submission.StudentID {
			existing.Type = submission.Type
			existing.Content = submission.Content
			existing.FileURL = submission.FileURL
			existing.Status = models.SubmissionStatusPending
			existing.Grade = nil
			existing.Feedback = nil
			existing.GradedAt = nil
			existing.SubmittedAt = time.Now()
			copied := *existing
			return &copied, nil
		}
	}

	stored := *submission
	stored.ID = f.nextID
	f.nextID++
	stored.Status = models.SubmissionStatusPending
	stored.SubmittedAt = time.Now()
	f.submissions[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeSubmissionStore) GetByID(_ context.Context, id int64) (*models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return nil, apperrors.ErrSubmissionNotFound
	}
	copied := *submission
	return &copied, nil
}

func (f *fakeSubmissionStore) GetByAssignmentAndStudent(_ context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			copied := *submission
			return &copied, nil
		}
	}
	return nil, apperrors.ErrSubmissionNotFound
}

func (f *fakeSubmissionStore) GetByAssignmentID(_ context.Context, assignmentID int64) ([]*models.Submission, error) {
	var out []*models.Submission
	for id := int64(1); id < f.nextID; id++ {
		if submission, ok := f.submissions[id]; ok && submission.AssignmentID == assignmentID {
			copied := *submission
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) Grade(_ context.Context, submissionID int64, grade int, feedback *string) error {
	submission, ok := f.submissions[submissionID]
	if !ok {
		return apperrors.ErrSubmissionNotFound
	}
	now := time.Now()
	submission.Status = models.SubmissionStatusGraded
	submission.Grade = &grade
	submission.Feedback = feedback
	submission.GradedAt = &now
	return nil
}

func (f *fakeSubmissionStore) GetMaxGradeByAssignmentID(_ context.Context, assignmentID int64) (*int, error) {
	var maxGrade *int
	for _, submission := range f.submissions {
		if submission.AssignmentID != assignmentID || submission.Grade == nil {
			continue
		}
		if maxGrade == nil || *submission.Grade > *maxGrade {
			grade := *submission.Grade
			maxGrade = &grade
		}
	}
	return maxGrade, nil
}

func (f *fakeSubmissionStore) GetStatsByAssignmentID(_ context.Context, assignmentID int64) (*models.AssignmentStats, error) {
	stats := &models.AssignmentStats{AssignmentID: assignmentID}
	for _, submission := range f.submissions {
		if submission.AssignmentID != assignmentID {
			continue
		}
		stats.SubmissionCount++
		if submission.Status == models.SubmissionStatusGraded {
			stats.GradedCount++
		} else {
			stats.PendingCount++
		}
	}
	return stats, nil
}

func (f *fakeSubmissionStore) GetStatsByAssignmentIDs(ctx context.Context, assignmentIDs []int64) (map[int64]*models.AssignmentStats, error) {
	out := make(map[int64]*models.AssignmentStats, len(assignmentIDs))
	for _, id := range assignmentIDs {
		stats, err := f.GetStatsByAssignmentID(ctx, id)
		if err != nil {
			return nil, err
		}
		if stats.SubmissionCount > 0 {
			out[id] = stats
		}
	}
	return out, nil
}

type fakeDispatcher struct {
	mu       sync.Mutex
	messages []string
	notified chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{notified: make(chan struct{}, 16)}
}

func (f *fakeDispatcher) NotifyGroup(_ context.Context, _ int64, message string) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	f.notified <- struct{}{}
}

// waitForNotification blocks until a notification arrives or the timeout fires
func (f *fakeDispatcher) waitForNotification(timeout time.Duration) bool {
	select {
	case <-f.notified:
		return true
	case <-time.After(timeout):
		return false
	}
}

type fakeFileStorage struct {
	saved []string
}

func (f *fakeFileStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return f.SaveFileWithPath(fileHeader, "")
}

func (f *fakeFileStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error) {
	url := "/uploads/" + path + "/" + fileHeader.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeFileStorage) DeleteFile(string) error { return nil }

func (f *fakeFileStorage) GetFullPath(fileURL string) string { return fileURL }

// testEnv bundles the fakes behind a wired set of services
type testEnv struct {
	users       *fakeUserStore
	groups      *fakeGroupStore
	members     *fakeMemberStore
	assignments *fakeAssignmentStore
	submissions *fakeSubmissionStore
	dispatcher  *fakeDispatcher
	storage     *fakeFileStorage
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	groups := newFakeGroupStore()
	members := newFakeMemberStore(groups)
	return &testEnv{
		users:       users,
		groups:      groups,
		members:     members,
		assignments: newFakeAssignmentStore(groups),
		submissions: newFakeSubmissionStore(),
		dispatcher:  newFakeDispatcher(),
		storage:     &fakeFileStorage{},
		authz:       auth.NewAuthorizationService(users, groups, members),
		logger:      zerolog.Nop(),
	}
}

func (e *testEnv) groupService() GroupService {
	return NewGroupService(e.groups, e.members, e.users, e.authz, e.logger)
}

func (e *testEnv) assignmentService() AssignmentService {
	return NewAssignmentService(e.assignments, e.submissions, e.authz, e.dispatcher, e.logger)
}

func (e *testEnv) submissionService() SubmissionService {
	return NewSubmissionService(e.submissions, e.assignments, e.authz, e.storage, e.logger)
}

func (e *testEnv) dashboardService() DashboardService {
	return NewDashboardService(e.groups, e.assignments, e.submissions, e.logger)
}

// seed helpers

func (e *testEnv) seedTeacher(id int64) *models.User {
	return e.users.add(&models.User{
		ID:        id,
		Email:     "teacher@example.com",
		FirstName: "Tess",
		LastName:  "Ojo",
		RoleType:  models.RoleTeacher,
		IsActive:  true,
	})
}

func (e *testEnv) seedStudent(id int64, email string) *models.User {
	return e.users.add(&models.User{
		ID:        id,
		Email:     email,
		FirstName: "Sam",
		LastName:  "Eze",
		RoleType:  models.RoleStudent,
		IsActive:  true,
	})
}

func (e *testEnv) seedLessonGroup(teacherID int64, maxStudents int) *models.Group {
	return e.groups.add(&models.Group{
		Name:        "Algebra",
		GroupType:   models.GroupTypeLesson,
		MaxStudents: &maxStudents,
		IsActive:    true,
		TeacherID:   teacherID,
	})
}

func (e *testEnv) seedSupportGroup(teacherID int64) *models.Group {
	return e.groups.add(&models.Group{
		Name:      "Homework Help",
		GroupType: models.GroupTypeSupport,
		IsActive:  true,
		TeacherID: teacherID,
	})
}

func (e *testEnv) enroll(groupID, studentID int64) {
	if _, err := e.members.AddMember(context.Background(), groupID, studentID); err != nil {
		panic(err)
	}
}

func (e *testEnv) seedAssignment(groupID int64, dueDate *time.Time, totalPoints int) *models.Assignment {
	return e.assignments.add(&models.Assignment{
		GroupID:     groupID,
		Title:       "Worksheet 1",
		TotalPoints: totalPoints,
		DueDate:     dueDate,
	})
}
