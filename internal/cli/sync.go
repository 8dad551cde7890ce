package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/workhub-app/workhub/internal/domain"
)

// syncPayload is the on-disk format produced by offline clients.
type syncPayload struct {
	BatchUUID string            `json:"batch_uuid"`
	Entries   []domain.SyncItem `json:"entries"`
}

var syncCmd = &cobra.Command{
	Use:   "sync <file.json>",
	Short: "Reconcile a batch of offline-captured entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read batch file: %w", err)
		}

		var payload syncPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse batch file: %w", err)
		}
		if payload.BatchUUID == "" {
			payload.BatchUUID = uuid.New().String()
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		report, err := a.sync.SyncBatch(cmd.Context(), payload.BatchUUID, payload.Entries)
		if err != nil && !errors.Is(err, domain.ErrPartialFailure) {
			return err
		}

		fmt.Printf("Batch %s %s: %d received, %d created, %d duplicates skipped\n",
			report.BatchUUID, report.Status, report.Received, report.Created, report.SkippedDuplicates)
		for _, f := range report.Failed {
			fmt.Printf("  item %d failed: %s\n", f.Index, f.Reason)
		}
		if len(report.Failed) > 0 {
			os.Exit(1)
		}
		return nil
	},
}
