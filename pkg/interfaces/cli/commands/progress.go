package commands

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/interfaces/cli/output"
)

func newProgressCommand(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show production progress for every project past commercial and engineering",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer app.Close()
			return output.WriteProgress(cmd.OutOrStdout(), progressRows(app), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", output.FormatText, "text, json or csv")
	return cmd
}

func progressRows(app *App) []output.ProgressRow {
	rows := []output.ProgressRow{}
	for _, p := range app.Ledger.Projects() {
		if !p.Status.AtLeast(entities.StatusPCP) {
			continue
		}
		progress, err := app.Ledger.Progress(p.ID)
		if err != nil {
			continue
		}
		row := output.ProgressRow{
			OPNumber: p.OPNumber,
			Client:   p.Client,
			Status:   p.Status,
			Items:    len(p.Materials),
			Progress: progress,
		}
		for i := range p.Materials {
			if p.Materials[i].IsDone() {
				row.Done++
			}
		}
		rows = append(rows, row)
	}
	return rows
}
