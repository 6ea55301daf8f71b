package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/report"
	"github.com/vsinha/metalerp/pkg/interfaces/cli/output"
)

type reportOptions struct {
	kind         string
	materialType string
	format       string
	out          string
}

func newReportCommand(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report <project id or OP number>",
		Short: "Print a purchasing report for one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer app.Close()
			return runReport(app, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.kind, "kind", "PENDING_ONLY", "PENDING_ONLY, IN_STOCK, QUOTING, ORDERED, DELIVERED or ALL")
	cmd.Flags().StringVar(&opts.materialType, "type", "ALL", "Restrict to BAR, SHEET or COMMERCIAL")
	cmd.Flags().StringVar(&opts.format, "format", output.FormatText, "text, json, csv, html, pdf or xlsx")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write to this file or directory instead of stdout")
	return cmd
}

func runReport(app *App, ref string, opts *reportOptions, stdout io.Writer) error {
	project, err := resolveProject(app.Ledger, ref)
	if err != nil {
		return err
	}
	doc, err := app.Reports.Build(services.ReportRequest{ProjectID: project.ID, Kind: opts.kind, Type: opts.materialType})
	if err != nil {
		return err
	}

	format := strings.ToLower(opts.format)
	if output.IsTabular(format) {
		w, closeFn, err := openOutput(opts.out, stdout)
		if err != nil {
			return err
		}
		defer closeFn()
		return output.WriteReport(w, doc, format)
	}

	// Binary formats always go to a file
	dest := opts.out
	if dest == "" {
		dest = app.Config.ReportDir
	}
	if info, err := os.Stat(dest); (err == nil && info.IsDir()) || filepath.Ext(dest) == "" {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		r, err := report.ForFormat(format)
		if err != nil {
			return err
		}
		dest = filepath.Join(dest, report.Filename(doc, r))
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()
	if _, err := app.Reports.Render(f, doc, format); err != nil {
		return err
	}
	log.Info().Str("file", dest).Int("lines", doc.LineCount()).Msg("report written")
	fmt.Fprintln(stdout, dest)
	return nil
}

// resolveProject accepts either a project id or an OP number
func resolveProject(ledger *services.LedgerService, ref string) (*entities.Project, error) {
	if p, err := ledger.Project(ref); err == nil {
		return p, nil
	}
	for _, p := range ledger.Projects() {
		if strings.EqualFold(p.OPNumber, ref) {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", services.ErrProjectNotFound, ref)
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
