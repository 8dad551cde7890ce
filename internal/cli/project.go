package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/workhub-app/workhub/internal/domain"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the project directory",
}

var projectRate float64

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		p := &domain.Project{
			ID:        uuid.New().String(),
			Name:      args[0],
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if cmd.Flags().Changed("rate") {
			p.HourlyRate = &projectRate
		}
		if err := a.store.Directory().CreateProject(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Printf("Project %s created: %s\n", p.ID, p.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		projects, err := a.store.Directory().ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range projects {
			rate := "-"
			if p.HourlyRate != nil {
				rate = fmt.Sprintf("%.2f/h", *p.HourlyRate)
			}
			active := ""
			if !p.IsActive {
				active = " (inactive)"
			}
			fmt.Printf("%s  %-30s %s%s\n", p.ID, p.Name, rate, active)
		}
		return nil
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks within a project",
}

var (
	taskRate     float64
	taskBillable bool
)

var taskAddCmd = &cobra.Command{
	Use:   "add <project-id> <title>",
	Short: "Register a task under a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		project, err := a.store.Directory().GetProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if project == nil {
			return fmt.Errorf("project %s: %w", args[0], domain.ErrNotFound)
		}

		t := &domain.Task{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Title:     args[1],
			Billable:  taskBillable,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if cmd.Flags().Changed("rate") {
			t.HourlyRate = &taskRate
		}
		if err := a.store.Directory().CreateTask(cmd.Context(), t); err != nil {
			return err
		}
		fmt.Printf("Task %s created: %s\n", t.ID, t.Title)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List a project's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		tasks, err := a.store.Directory().ListTasks(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, t := range tasks {
			billable := " "
			if t.Billable {
				billable = "$"
			}
			rate := "-"
			if t.HourlyRate != nil {
				rate = fmt.Sprintf("%.2f/h", *t.HourlyRate)
			}
			fmt.Printf("%s  %-30s %s %s\n", t.ID, t.Title, billable, rate)
		}
		return nil
	},
}

func init() {
	projectAddCmd.Flags().Float64Var(&projectRate, "rate", 0, "default hourly rate")
	taskAddCmd.Flags().Float64Var(&taskRate, "rate", 0, "hourly rate override for this task")
	taskAddCmd.Flags().BoolVar(&taskBillable, "billable", true, "whether time on this task bills by default")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
}
