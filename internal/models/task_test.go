package models

import (
	"testing"
	"time"
)

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "due tomorrow",
			task: Task{DueDate: today.AddDate(0, 0, 1)},
			want: false,
		},
		{
			name: "due yesterday",
			task: Task{DueDate: today.AddDate(0, 0, -1)},
			want: true,
		},
		{
			name: "due today is not overdue",
			task: Task{DueDate: today},
			want: false,
		},
		{
			name: "completed task is never overdue",
			task: Task{DueDate: today.AddDate(0, 0, -1), IsCompleted: true},
			want: false,
		},
		{
			name: "long past and incomplete",
			task: Task{DueDate: today.AddDate(-1, 0, 0)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(today); got != tt.want {
				t.Fatalf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskIsOverdue_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	// Due late tonight, evaluated early this morning: same calendar date,
	// so not overdue regardless of clock time.
	due := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, time.June, 15, 0, 1, 0, 0, time.UTC)

	task := Task{DueDate: due}
	if task.IsOverdue(today) {
		t.Fatalf("task due on the same calendar date must not be overdue")
	}
}
