package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/workhub-app/workhub/internal/domain"
	"github.com/workhub-app/workhub/internal/ports"
	"github.com/workhub-app/workhub/internal/util"
	"github.com/workhub-app/workhub/internal/workbench"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage ledger time entries",
}

var (
	entryDate     string
	entryStart    string
	entryEnd      string
	entrySeconds  int64
	entryNote     string
	entryBillable bool
)

var entryAddCmd = &cobra.Command{
	Use:   "add <project-id> <task-id>",
	Short: "Record a manual time entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		date := a.entriesDate()
		if entryDate != "" {
			date, err = time.Parse(util.DateLayout, entryDate)
			if err != nil {
				return fmt.Errorf("invalid date %q, use YYYY-MM-DD", entryDate)
			}
		}

		billable := entryBillable
		entry, err := a.entries.CreateManualEntry(cmd.Context(), workbench.ManualEntryParams{
			ProjectID:       args[0],
			TaskID:          args[1],
			Date:            date,
			Start:           entryStart,
			End:             entryEnd,
			DurationSeconds: entrySeconds,
			Note:            entryNote,
			Billable:        &billable,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Entry %s recorded: %s on %s\n", entry.ID,
			formatDuration(entry.DurationSeconds), entry.EntryDate.Format(util.DateLayout))
		return nil
	},
}

var (
	listFrom    string
	listTo      string
	listProject string
	listTask    string
	listLimit   int
)

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		opts := ports.ListEntriesOptions{Limit: listLimit}
		if listFrom != "" {
			from, err := time.Parse(util.DateLayout, listFrom)
			if err != nil {
				return fmt.Errorf("invalid --from date %q", listFrom)
			}
			opts.DateFrom = &from
		}
		if listTo != "" {
			to, err := time.Parse(util.DateLayout, listTo)
			if err != nil {
				return fmt.Errorf("invalid --to date %q", listTo)
			}
			opts.DateTo = &to
		}
		if listProject != "" {
			opts.ProjectID = &listProject
		}
		if listTask != "" {
			opts.TaskID = &listTask
		}

		entries, err := a.entries.ListTimeEntries(cmd.Context(), opts)
		if err != nil {
			return err
		}
		for _, e := range entries {
			billable := " "
			if e.IsBillable {
				billable = "$"
			}
			fmt.Printf("%s  %s  %s %s [%s] %s\n",
				e.ID, e.EntryDate.Format(util.DateLayout),
				formatDuration(e.DurationSeconds), billable, e.Source, e.Note)
		}
		return nil
	},
}

var (
	editNote     string
	editStart    string
	editEnd      string
	editBillable string
)

var entryEditCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Update note, billability, or times of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		var patch domain.TimeEntryPatch
		if cmd.Flags().Changed("note") {
			patch.Note = &editNote
		}
		if cmd.Flags().Changed("billable") {
			b := editBillable == "true" || editBillable == "yes"
			patch.IsBillable = &b
		}

		entry, err := a.entries.GetTimeEntry(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if editStart != "" {
			t, err := combineDateClock(entry.EntryDate, editStart)
			if err != nil {
				return err
			}
			patch.StartTime = &t
		}
		if editEnd != "" {
			t, err := combineDateClock(entry.EntryDate, editEnd)
			if err != nil {
				return err
			}
			patch.EndTime = &t
		}

		updated, err := a.entries.UpdateTimeEntry(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		fmt.Printf("Entry %s updated: %s\n", updated.ID, formatDuration(updated.DurationSeconds))
		return nil
	},
}

var entryRmCmd = &cobra.Command{
	Use:   "rm <entry-id>",
	Short: "Remove an entry from the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if err := a.entries.RemoveTimeEntry(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Entry removed")
		return nil
	},
}

func combineDateClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, use HH:MM:SS", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// entriesDate is today in UTC, the default date for manual entries.
func (a *app) entriesDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func init() {
	entryAddCmd.Flags().StringVar(&entryDate, "date", "", "entry date (YYYY-MM-DD, default today)")
	entryAddCmd.Flags().StringVar(&entryStart, "start", "", "start clock time (HH:MM:SS)")
	entryAddCmd.Flags().StringVar(&entryEnd, "end", "", "end clock time (HH:MM:SS)")
	entryAddCmd.Flags().Int64Var(&entrySeconds, "seconds", 0, "raw duration in seconds when no clock window is given")
	entryAddCmd.Flags().StringVar(&entryNote, "note", "", "note for the entry")
	entryAddCmd.Flags().BoolVar(&entryBillable, "billable", true, "whether the entry is billable")

	entryListCmd.Flags().StringVar(&listFrom, "from", "", "start of the date range (YYYY-MM-DD)")
	entryListCmd.Flags().StringVar(&listTo, "to", "", "end of the date range (YYYY-MM-DD)")
	entryListCmd.Flags().StringVar(&listProject, "project", "", "filter by project id")
	entryListCmd.Flags().StringVar(&listTask, "task", "", "filter by task id")
	entryListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum entries to return")

	entryEditCmd.Flags().StringVar(&editNote, "note", "", "new note")
	entryEditCmd.Flags().StringVar(&editStart, "start", "", "new start clock time (HH:MM:SS)")
	entryEditCmd.Flags().StringVar(&editEnd, "end", "", "new end clock time (HH:MM:SS)")
	entryEditCmd.Flags().StringVar(&editBillable, "billable", "", "new billability (true/false)")

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryRmCmd)
}
