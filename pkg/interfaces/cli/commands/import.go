package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/csv"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	var materialType, file string
	cmd := &cobra.Command{
		Use:   "import <project id or OP number>",
		Short: "Append material lines from a tab separated file or an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := entities.ParseMaterialType(materialType)
			if err != nil {
				return err
			}
			app, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer app.Close()

			project, err := resolveProject(app.Ledger, args[0])
			if err != nil {
				return err
			}
			items, err := csv.NewImporter(uuid.NewString).LoadFile(file, t)
			if err != nil {
				return err
			}
			if err := app.Ledger.AppendMaterials(cmd.Context(), project.ID, items); err != nil {
				return err
			}
			log.Info().Str("project", project.OPNumber).Int("items", len(items)).Str("type", string(t)).Msg("materials imported")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d materials into %s\n", len(items), project.OPNumber)
			return nil
		},
	}
	cmd.Flags().StringVar(&materialType, "type", "", "BAR, SHEET or COMMERCIAL")
	cmd.Flags().StringVar(&file, "file", "", "Path to a .tsv/.txt or .xlsx file")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
