package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/workhub-app/workhub/internal/adapters/turso"
	"github.com/workhub-app/workhub/internal/infrastructure/config"
	"github.com/workhub-app/workhub/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := turso.NewDB(cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		applied, err := migrate.Up(cmd.Context(), db)
		if err != nil {
			return err
		}
		if applied == 0 {
			fmt.Println("No migrations to run")
			return nil
		}

		version, _, err := migrate.Version(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Printf("Migrated to version %d (%d applied)\n", version, applied)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down <version>",
	Short: "Roll the schema back to a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := turso.NewDB(cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := migrate.DownTo(cmd.Context(), db, target); err != nil {
			return err
		}
		fmt.Printf("Migrated down to version %d\n", target)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := turso.NewDB(cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		version, dirty, err := migrate.Version(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Printf("version %d", version)
		if dirty {
			fmt.Print(" (dirty)")
		}
		fmt.Println()
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
