package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tracker/internal/models"
)

var (
	labelColor       string
	labelDescription string
	labelCreatorID   int64
)

// labelsCmd groups the label subcommands.
var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Manage labels",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var labelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		labels, err := appInstance.PrimaryStore.ListLabels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list labels: %w", err)
		}
		if len(labels) == 0 {
			fmt.Println("No labels found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Color", "Description"})
		table.SetBorder(true)
		for _, label := range labels {
			table.Append([]string{
				strconv.FormatInt(label.ID, 10),
				label.Name,
				label.Color,
				label.Description,
			})
		}
		table.Render()
		return nil
	},
}

var labelsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		label := &models.Label{
			Name:        args[0],
			Color:       labelColor,
			Description: labelDescription,
		}
		if cmd.Flags().Changed("creator") {
			label.CreatedByID = &labelCreatorID
		}
		if label.Color == "" {
			label.Color = models.DefaultLabelColor
		}

		if err := appInstance.PrimaryStore.CreateLabel(cmd.Context(), label); err != nil {
			return fmt.Errorf("failed to create label: %w", err)
		}
		fmt.Printf("Created label #%d: %s\n", label.ID, label.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
	labelsCmd.AddCommand(labelsListCmd)
	labelsCmd.AddCommand(labelsCreateCmd)

	labelsCreateCmd.Flags().StringVarP(&labelColor, "color", "c", "", "Hex color (defaults to the UI gray)")
	labelsCreateCmd.Flags().StringVarP(&labelDescription, "description", "d", "", "Label description")
	labelsCreateCmd.Flags().Int64Var(&labelCreatorID, "creator", 0, "Creating user ID")
}
