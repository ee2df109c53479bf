package dto

import (
	"time"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
)

// --- Request DTOs ---

// CreateGroupRequest represents group creation data
type CreateGroupRequest struct {
	Name        string           `json:"name" binding:"required,min=2,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	GroupType   models.GroupType `json:"groupType" binding:"required,oneof=LESSON SUPPORT"`
	MaxStudents *int             `json:"maxStudents,omitempty" binding:"omitempty,min=1,max=500"`
	ProductID   *int64           `json:"productId,omitempty" binding:"omitempty,gt=0"`
}

// UpdateGroupRequest represents group update data
type UpdateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"max=2000"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// AddMemberRequest represents the request to add a student to a group
type AddMemberRequest struct {
	StudentID int64 `json:"studentId" binding:"required,gt=0"`
}

// GroupFilterRequest represents group filter parameters
type GroupFilterRequest struct {
	TeacherID *int64  `form:"teacherId,omitempty"`
	Search    *string `form:"search,omitempty"`
	Page      int     `form:"page,default=1" binding:"min=1"`
	PageSize  int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// GroupResponse represents basic group information
type GroupResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	GroupType   models.GroupType   `json:"groupType"`
	MaxStudents *int               `json:"maxStudents,omitempty"`
	IsActive    bool               `json:"isActive"`
	TeacherID   int64              `json:"teacherId"`
	Teacher     *UserResponse      `json:"teacher,omitempty"`
	ProductID   *int64             `json:"productId,omitempty"`
	MemberCount int                `json:"memberCount"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// GroupMemberResponse represents a member of a group
type GroupMemberResponse struct {
	StudentID int64     `json:"studentId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// GroupDetailResponse extends GroupResponse with member details.
// Members is only populated for the owning teacher and enrolled students.
type GroupDetailResponse struct {
	GroupResponse
	Members []GroupMemberResponse `json:"members,omitempty"`
}

// GroupListResponse represents a paginated list of groups
type GroupListResponse struct {
	Groups     []GroupResponse `json:"groups"`
	Pagination PaginationInfo  `json:"pagination"`
}

// FromGroup converts a group model to its response form
func FromGroup(group *models.Group) GroupResponse {
	if group == nil {
		return GroupResponse{}
	}

	resp := GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		GroupType:   group.GroupType,
		MaxStudents: group.MaxStudents,
		IsActive:    group.IsActive,
		TeacherID:   group.TeacherID,
		ProductID:   group.ProductID,
		MemberCount: group.MemberCount,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}

	if group.Teacher != nil {
		teacher := FromUser(group.Teacher)
		resp.Teacher = &teacher
	}

	return resp
}

// FromGroupMember converts a membership row joined with its student profile
func FromGroupMember(member *models.GroupMember) GroupMemberResponse {
	resp := GroupMemberResponse{
		StudentID: member.StudentID,
		JoinedAt:  member.JoinedAt,
	}
	if member.Student != nil {
		resp.FirstName = member.Student.FirstName
		resp.LastName = member.Student.LastName
		resp.Email = member.Student.Email
	}
	return resp
}
