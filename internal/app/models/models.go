package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
	RoleParent  RoleType = "PARENT"
)
