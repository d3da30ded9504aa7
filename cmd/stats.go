package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsUserID int64

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show issue statistics",
	Long: `Displays aggregate issue statistics: totals by status, category and
priority, recent volume, average resolution time and overdue count.
With --user, shows a single user's reported/assigned/resolved counts instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		if cmd.Flags().Changed("user") {
			stats, err := appInstance.StatsService.UserStatistics(cmd.Context(), statsUserID)
			if err != nil {
				return fmt.Errorf("failed to compute user statistics: %w", err)
			}
			fmt.Printf("User %d\n", statsUserID)
			fmt.Printf("Reported issues:  %d\n", stats.ReportedIssues)
			fmt.Printf("Assigned issues:  %d\n", stats.AssignedIssues)
			fmt.Printf("Resolved issues:  %d\n", stats.ResolvedIssues)
			fmt.Printf("Resolution rate:  %.1f%%\n", stats.ResolutionRate)
			return nil
		}

		stats, err := appInstance.StatsService.IssueStatistics(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to compute statistics: %w", err)
		}

		fmt.Printf("Total issues: %d (open %d, in progress %d, resolved %d, closed %d)\n",
			stats.Total, stats.Open, stats.InProgress, stats.Resolved, stats.Closed)
		fmt.Printf("Created in the last 7 days: %d\n", stats.Recent)
		if stats.AvgResolutionHours != nil {
			fmt.Printf("Average resolution time: %.1f hours\n", *stats.AvgResolutionHours)
		}
		fmt.Printf("Overdue: %d\n\n", stats.OverdueCount)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Category", "Count"})
		table.SetBorder(true)
		for category, count := range stats.ByCategory {
			table.Append([]string{string(category), strconv.Itoa(count)})
		}
		table.Render()

		table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Priority", "Count"})
		table.SetBorder(true)
		for priority, count := range stats.ByPriority {
			table.Append([]string{string(priority), strconv.Itoa(count)})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int64VarP(&statsUserID, "user", "u", 0, "Show statistics for a single user ID")
}
