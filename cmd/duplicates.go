package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var duplicatesDescription string

// duplicatesCmd represents the duplicates command
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates <title>",
	Short: "Find issues that look like duplicates of the given text",
	Long: `Extracts keywords from the given title and description and compares them
against open issues by keyword overlap. Prints the closest matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		title := strings.Join(args, " ")
		matches, err := appInstance.DuplicateService.FindDuplicates(cmd.Context(), title, duplicatesDescription)
		if err != nil {
			return fmt.Errorf("failed to find duplicates: %w", err)
		}
		if len(matches) == 0 {
			fmt.Println("No likely duplicates found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Title", "Status", "Similarity"})
		table.SetBorder(true)

		for _, match := range matches {
			table.Append([]string{
				strconv.FormatInt(match.Issue.ID, 10),
				match.Issue.Title,
				string(match.Issue.Status),
				fmt.Sprintf("%.2f", match.Similarity),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)

	duplicatesCmd.Flags().StringVarP(&duplicatesDescription, "description", "d", "", "Issue description to compare alongside the title")
}
