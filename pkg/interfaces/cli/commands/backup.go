package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/metalerp/pkg/infrastructure/backup"
)

func newBackupCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, restore or schedule full backups",
	}
	cmd.AddCommand(newBackupExportCommand(root), newBackupRestoreCommand(root), newBackupScheduleCommand(root))
	return cmd
}

func newBackupExportCommand(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup bundle to a file, or to the configured sink when --out is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer app.Close()

			if out == "" {
				sink, err := app.BackupSink(cmd.Context())
				if err != nil {
					return err
				}
				name, err := backup.NewScheduler(app.Backups.ExportJSON, sink).RunOnce(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", name, sink.Describe())
				return nil
			}

			data, err := app.Backups.ExportJSON(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Destination file")
	return cmd
}

func newBackupRestoreCommand(root *rootOptions) *cobra.Command {
	var file string
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace every stored document with the contents of a backup bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			app, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Backups.Restore(cmd.Context(), data, yes); err != nil {
				if !yes {
					return fmt.Errorf("%w (pass --yes to overwrite the current data)", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s: %d projects\n", file, len(app.Ledger.Projects()))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Backup bundle to restore")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm that current data will be overwritten")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newBackupScheduleCommand(root *rootOptions) *cobra.Command {
	var cronExpr string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run periodic backups in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer app.Close()

			if cronExpr == "" {
				cronExpr = app.Config.BackupSchedule
			}
			if cronExpr == "" {
				return fmt.Errorf("no schedule: pass --cron or set BACKUP_SCHEDULE")
			}
			sink, err := app.BackupSink(cmd.Context())
			if err != nil {
				return err
			}
			scheduler := backup.NewScheduler(app.Backups.ExportJSON, sink)
			if err := scheduler.Start(cronExpr); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			log.Info().Msg("stopping backup scheduler")
			scheduler.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Five field cron expression, defaults to BACKUP_SCHEDULE")
	return cmd
}
