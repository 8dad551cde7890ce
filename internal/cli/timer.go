package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/workbench"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Control the active timer",
}

var (
	timerOrigin    string
	timerLocalUUID string
)

var timerStartCmd = &cobra.Command{
	Use:   "start <project-id> <task-id>",
	Short: "Start tracking time against a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		session, err := a.timers.Start(cmd.Context(), workbench.StartParams{
			ProjectID:        args[0],
			TaskID:           args[1],
			Origin:           timerOrigin,
			LocalSessionUUID: timerLocalUUID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Timer %s running (started %s)\n", session.ID, session.StartedAt.Format("15:04:05"))
		return nil
	},
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the active timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		session, err := a.timers.Pause(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Timer paused, %s worked so far\n", formatDuration(session.ElapsedSeconds))
		return nil
	},
}

var timerResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the paused timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if _, err := a.timers.Resume(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Timer running")
		return nil
	},
}

var timerStopNote string

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active timer and record a time entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		session, entry, err := a.timers.Stop(cmd.Context(), timerStopNote)
		if err != nil {
			return err
		}
		fmt.Printf("Timer stopped: %s worked, %s on break\n",
			formatDuration(session.ElapsedSeconds), formatDuration(session.BreakSeconds))
		if entry.AmountSnapshot != nil {
			fmt.Printf("Entry %s recorded: %.2f\n", entry.ID, *entry.AmountSnapshot)
		}
		return nil
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active timer, if any",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		session, err := a.timers.Active(cmd.Context())
		if err != nil {
			return err
		}
		if session == nil {
			fmt.Println("No active timer")
			return nil
		}
		fmt.Printf("Timer %s is %s on task %s (%s worked, %s on break)\n",
			session.ID, session.Status, session.TaskID,
			formatDuration(session.ElapsedSeconds), formatDuration(session.BreakSeconds))
		return nil
	},
}

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Record breaks on the active timer",
}

var breakReason string

var breakStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Put the active timer on break",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if _, err := a.timers.StartBreak(cmd.Context(), breakReason); err != nil {
			return err
		}
		fmt.Println("On break")
		return nil
	},
}

var breakStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "End the open break and resume work",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		session, err := a.timers.StopBreak(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Back to work, %s of break recorded\n", formatDuration(session.BreakSeconds))
		return nil
	},
}

func init() {
	timerStartCmd.Flags().StringVar(&timerOrigin, "origin", domain.OriginWeb, "origin of the start request (web, mobile, offline)")
	timerStartCmd.Flags().StringVar(&timerLocalUUID, "local-uuid", "", "client-generated session identifier")
	timerStopCmd.Flags().StringVar(&timerStopNote, "note", "", "note for the recorded entry")
	breakStartCmd.Flags().StringVar(&breakReason, "reason", "", "reason for the break")

	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerPauseCmd)
	timerCmd.AddCommand(timerResumeCmd)
	timerCmd.AddCommand(timerStopCmd)
	timerCmd.AddCommand(timerStatusCmd)

	breakCmd.AddCommand(breakStartCmd)
	breakCmd.AddCommand(breakStopCmd)
}
