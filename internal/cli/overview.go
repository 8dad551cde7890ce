package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show tracked time, utilization, and the active timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		o, err := a.overview.Overview(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Today:       %s\n", formatDuration(o.TodaySeconds))
		fmt.Printf("This week:   %s\n", formatDuration(o.WeekSeconds))
		fmt.Printf("This month:  %s (%s billable, %.2f earned, %.2f%% utilization)\n",
			formatDuration(o.MonthSeconds), formatDuration(o.BillableSecondsMonth),
			o.EarningsMonth, o.UtilizationPercent)

		if o.ActiveTimer != nil {
			fmt.Printf("Active:      timer %s is %s on task %s\n",
				o.ActiveTimer.ID, o.ActiveTimer.Status, o.ActiveTimer.TaskID)
		} else {
			fmt.Println("Active:      none")
		}

		rollups, err := a.overview.ProjectRollups(cmd.Context())
		if err != nil {
			return err
		}
		if len(rollups) > 0 {
			fmt.Println("\nProjects:")
			for _, r := range rollups {
				fmt.Printf("  %-30s %s\n", r.Name, formatDuration(r.Seconds))
			}
		}
		return nil
	},
}
