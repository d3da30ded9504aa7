package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tracker/internal/clix"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

var (
	listSortBy    string
	listSortOrder string
	listPriority  string
	listCategory  string
	listAssignee  int64
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues",
	Long: `Displays issues from the tracker in a table.
Supports pagination, sorting, and filtering by status, priority, category and assignee.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}
		statuses, err := clix.ParseStatuses(cmd.Flags())
		if err != nil {
			return err
		}

		params := store.ListIssuesParams{
			Limit:      pagination.Limit,
			Offset:     pagination.Offset,
			SortBy:     listSortBy,
			SortOrder:  listSortOrder,
			Statuses:   statuses,
			Priority:   classifier.Priority(listPriority),
			Category:   classifier.Category(listCategory),
			AssigneeID: listAssignee,
		}

		issues, err := appInstance.IssueService.ListIssues(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("failed to list issues: %w", err)
		}
		if len(issues) == 0 {
			fmt.Println("No issues found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Title", "Status", "Priority", "Category", "Assignee", "Created"})
		table.SetBorder(true)
		table.SetRowLine(false)

		for _, issue := range issues {
			assignee := "-"
			if issue.AssigneeID != nil {
				assignee = strconv.FormatInt(*issue.AssigneeID, 10)
			}
			title := issue.Title
			if len(title) > 60 {
				title = title[:57] + "..."
			}
			table.Append([]string{
				strconv.FormatInt(issue.ID, 10),
				title,
				string(issue.Status),
				string(issue.Priority),
				string(issue.Category),
				assignee,
				issue.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		table.Render()

		fmt.Printf("Displayed %d issues.\n", len(issues))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntP("limit", "l", 20, "Number of issues to display per page")
	listCmd.Flags().IntP("offset", "o", 0, "Number of issues to skip (for pagination)")
	listCmd.Flags().StringVar(&listSortBy, "sort-by", "created_at", "Column to sort by (id, title, status, priority, created_at, updated_at)")
	listCmd.Flags().StringVar(&listSortOrder, "sort-order", "desc", "Sort order (asc, desc)")
	listCmd.Flags().StringP("status", "s", "", "Comma-separated statuses to filter by")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Priority to filter by")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Category to filter by")
	listCmd.Flags().Int64VarP(&listAssignee, "assignee", "a", 0, "Assignee user ID to filter by")
}
