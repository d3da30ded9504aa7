package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tracker/internal/services"
	"tracker/pkg/classifier"
)

var (
	createDescription    string
	createCategory       string
	createPriority       string
	createReporterID     int64
	createAssigneeID     int64
	createEstimatedHours float64
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new issue",
	Long: `Creates a new issue with the given title. The classifier runs on the new
issue and attaches a category and priority suggestion when it is confident
enough.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		title := strings.Join(args, " ")
		params := services.CreateIssueParams{
			Title:       title,
			Description: createDescription,
			Category:    classifier.Category(createCategory),
			Priority:    classifier.Priority(createPriority),
			ReporterID:  createReporterID,
		}
		if cmd.Flags().Changed("assignee") {
			params.AssigneeID = &createAssigneeID
		}
		if cmd.Flags().Changed("estimate") {
			params.EstimatedHours = &createEstimatedHours
		}

		issue, err := appInstance.IssueService.CreateIssue(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}

		fmt.Printf("%s issue #%d: %s\n", color.GreenString("Created"), issue.ID, issue.Title)
		fmt.Printf("Status: %s  Priority: %s  Category: %s\n", issue.Status, issue.Priority, issue.Category)
		if issue.AISuggestedCategory != nil {
			fmt.Printf("Suggested category: %s (confidence %.2f)\n", *issue.AISuggestedCategory, *issue.AIConfidence)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Issue description")
	createCmd.Flags().StringVarP(&createCategory, "category", "c", "", "Category (bug, feature, enhancement, documentation, question, task)")
	createCmd.Flags().StringVarP(&createPriority, "priority", "p", "", "Priority (critical, high, medium, low)")
	createCmd.Flags().Int64VarP(&createReporterID, "reporter", "r", 0, "Reporter user ID")
	createCmd.Flags().Int64VarP(&createAssigneeID, "assignee", "a", 0, "Assignee user ID")
	createCmd.Flags().Float64VarP(&createEstimatedHours, "estimate", "e", 0, "Estimated hours")
	createCmd.MarkFlagRequired("reporter")
}
