package domain

import "time"

// Project is the slice of the project-management collaborator this core
// needs: identity, active flag, and the fallback hourly rate.
type Project struct {
	ID         string
	Name       string
	HourlyRate *float64
	IsActive   bool
	CreatedAt  time.Time
}

// Task belongs to a project. Its rate, when set, wins over the
// project's rate in snapshots; its billable flag is copied onto entries.
type Task struct {
	ID         string
	ProjectID  string
	Title      string
	HourlyRate *float64
	Billable   bool
	IsActive   bool
	CreatedAt  time.Time
}

// RateFor resolves the hourly rate snapshot for a (project, task) pair:
// task rate, falling back to the project rate, falling back to zero.
func RateFor(project *Project, task *Task) float64 {
	if task != nil && task.HourlyRate != nil {
		return *task.HourlyRate
	}
	if project != nil && project.HourlyRate != nil {
		return *project.HourlyRate
	}
	return 0
}
