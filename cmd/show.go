package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	showComments bool
	showActivity bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <issue-id>",
	Short: "Show a single issue",
	Long:  `Displays an issue with its labels, and optionally its comments and activity log.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid issue ID: %s", args[0])
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		issue, err := appInstance.IssueService.GetIssue(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to retrieve issue: %w", err)
		}

		fmt.Printf("Issue #%d: %s\n", issue.ID, color.New(color.Bold).Sprint(issue.Title))
		fmt.Printf("Status: %s  Priority: %s  Category: %s\n", issue.Status, issue.Priority, issue.Category)
		fmt.Printf("Reporter: %d", issue.ReporterID)
		if issue.AssigneeID != nil {
			fmt.Printf("  Assignee: %d", *issue.AssigneeID)
		}
		fmt.Println()
		fmt.Printf("Created: %s  Updated: %s\n",
			issue.CreatedAt.Format("2006-01-02 15:04"), issue.UpdatedAt.Format("2006-01-02 15:04"))
		if issue.ResolvedAt != nil {
			fmt.Printf("Resolved: %s", issue.ResolvedAt.Format("2006-01-02 15:04"))
			if hours := issue.TimeToResolve(); hours != nil {
				fmt.Printf(" (%.1f hours)", *hours)
			}
			fmt.Println()
		}
		if issue.AISuggestedCategory != nil {
			fmt.Printf("Suggested: %s (confidence %.2f", *issue.AISuggestedCategory, *issue.AIConfidence)
			if issue.AISuggestedPriority != nil {
				fmt.Printf(", priority %s", *issue.AISuggestedPriority)
			}
			fmt.Println(")")
		}
		fmt.Printf("Views: %d  Upvotes: %d\n", issue.ViewsCount, issue.Upvotes)

		labels, err := appInstance.PrimaryStore.GetIssueLabels(cmd.Context(), id)
		if err == nil && len(labels) > 0 {
			names := make([]string, len(labels))
			for i, l := range labels {
				names[i] = l.Name
			}
			fmt.Printf("Labels: %s\n", strings.Join(names, ", "))
		}

		if issue.Description != "" {
			fmt.Printf("\n%s\n", issue.Description)
		}

		if showComments {
			comments, err := appInstance.IssueService.ListComments(cmd.Context(), id, true)
			if err != nil {
				return fmt.Errorf("failed to list comments: %w", err)
			}
			fmt.Printf("\nComments (%d):\n", len(comments))
			for _, comment := range comments {
				marker := ""
				if comment.IsInternal {
					marker = " [internal]"
				}
				fmt.Printf("- #%d by user %d at %s%s:\n  %s\n",
					comment.ID, comment.AuthorID, comment.CreatedAt.Format("2006-01-02 15:04"), marker, comment.Content)
			}
		}

		if showActivity {
			entries, err := appInstance.IssueService.ListActivity(cmd.Context(), id, 50)
			if err != nil {
				return fmt.Errorf("failed to list activity: %w", err)
			}
			fmt.Printf("\nActivity (%d):\n", len(entries))
			for _, entry := range entries {
				fmt.Printf("- %s user %d %s: %s\n",
					entry.Timestamp.Format("2006-01-02 15:04"), entry.UserID, entry.Action, entry.Details)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showComments, "comments", false, "Include comments")
	showCmd.Flags().BoolVar(&showActivity, "activity", false, "Include the activity log")
}
