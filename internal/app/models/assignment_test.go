package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAssignmentStatus(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	ptr := func(tm time.Time) *time.Time { return &tm }

	tests := []struct {
		name    string
		dueDate *time.Time
		want    AssignmentStatus
	}{
		{
			name:    "no due date",
			dueDate: nil,
			want:    AssignmentStatusNoDeadline,
		},
		{
			name:    "due date in the past",
			dueDate: ptr(now.Add(-time.Minute)),
			want:    AssignmentStatusOverdue,
		},
		{
			name:    "due date equal to now",
			dueDate: ptr(now),
			want:    AssignmentStatusDueSoon,
		},
		{
			name:    "due within the window",
			dueDate: ptr(now.Add(24 * time.Hour)),
			want:    AssignmentStatusDueSoon,
		},
		{
			name:    "due exactly at the window boundary",
			dueDate: ptr(now.Add(DueSoonWindow)),
			want:    AssignmentStatusDueSoon,
		},
		{
			name:    "due just past the window boundary",
			dueDate: ptr(now.Add(DueSoonWindow + time.Second)),
			want:    AssignmentStatusActive,
		},
		{
			name:    "due far in the future",
			dueDate: ptr(now.Add(30 * 24 * time.Hour)),
			want:    AssignmentStatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveAssignmentStatus(tt.dueDate, now))
		})
	}
}

func TestAssignmentStatusUsesDueDate(t *testing.T) {
	now := time.Now()
	due := now.Add(-time.Hour)
	a := &Assignment{DueDate: &due}

	assert.Equal(t, AssignmentStatusOverdue, a.Status(now))

	a.DueDate = nil
	assert.Equal(t, AssignmentStatusNoDeadline, a.Status(now))
}
