package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tracker/internal/clix"
	"tracker/internal/store"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export issues to CSV",
	Long:  `Writes issues matching the filter to a CSV file, or stdout when no output path is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		statuses, err := clix.ParseStatuses(cmd.Flags())
		if err != nil {
			return err
		}
		params := store.ListIssuesParams{SortBy: "created_at", SortOrder: "desc", Statuses: statuses}

		out := os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := appInstance.ExportService.WriteCSV(cmd.Context(), out, params); err != nil {
			return fmt.Errorf("failed to export issues: %w", err)
		}
		if exportOutput != "" {
			fmt.Printf("Exported issues to %s\n", exportOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (defaults to stdout)")
	exportCmd.Flags().StringP("status", "s", "", "Comma-separated statuses to filter by")
}
