package models

import "time"

// GroupType distinguishes capacity-bounded lesson groups from open support groups
type GroupType string

const (
	// GroupTypeLesson is an instructional group bounded by MaxStudents.
	// Only lesson groups may host assignments.
	GroupTypeLesson GroupType = "LESSON"
	// GroupTypeSupport is an uncapped community/discussion group.
	GroupTypeSupport GroupType = "SUPPORT"
)

// IsValid reports whether the group type is one of the recognized values
func (t GroupType) IsValid() bool {
	return t == GroupTypeLesson || t == GroupTypeSupport
}

// Group represents a lesson or support group owned by a teacher
type Group struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	GroupType   GroupType `json:"groupType" db:"group_type" example:"LESSON"`
	MaxStudents *int      `json:"maxStudents,omitempty" db:"max_students"` // only meaningful for LESSON groups
	IsActive    bool      `json:"isActive" db:"is_active"`
	TeacherID   int64     `json:"teacherId" db:"teacher_id"`
	ProductID   *int64    `json:"productId,omitempty" db:"product_id"` // optional linked marketplace product
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Teacher     *User `json:"teacher,omitempty"`
	MemberCount int   `json:"memberCount,omitempty"`
}

// GroupMember represents a student's membership in a group
type GroupMember struct {
	ID        int64     `json:"id" db:"id"`
	GroupID   int64     `json:"groupId" db:"group_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	JoinedAt  time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	Student *User `json:"student,omitempty"`
}
