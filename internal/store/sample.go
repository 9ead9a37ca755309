package store

import "github.com/bryan-cox/studyledger/internal/model"

// SampleTasks returns a starter set of tasks due relative to today.
func SampleTasks(today model.Date) []model.Task {
	return []model.Task{
		{Course: "Mathematics", Title: "Complete calculus exercises", DueDate: today.AddDays(2), Priority: model.PriorityHigh, EstimatedHours: 3},
		{Course: "Computer Science", Title: "AI project implementation", DueDate: today.AddDays(5), Priority: model.PriorityHigh, EstimatedHours: 8},
		{Course: "Physics", Title: "Lab report on optics", DueDate: today.AddDays(7), Priority: model.PriorityMedium, EstimatedHours: 4},
		{Course: "Literature", Title: "Read chapters 5-7", DueDate: today.AddDays(10), Priority: model.PriorityLow, EstimatedHours: 2},
	}
}
