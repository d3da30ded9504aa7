package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var classifyDescription string

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Classify issue text without creating an issue",
	Long: `Runs the rule classifier over the given title and description and prints
the suggested category, priority, keywords and sentiment. Nothing is stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		title := strings.Join(args, " ")
		suggestion := appInstance.ClassificationService.Classify(title, classifyDescription)

		fmt.Printf("Category:   %s (confidence %.2f)\n",
			color.CyanString(string(suggestion.Category)), suggestion.Confidence)
		fmt.Printf("Priority:   %s\n", colorPriority(string(suggestion.Priority)))
		fmt.Printf("Sentiment:  %s\n", suggestion.Sentiment)
		if len(suggestion.Keywords) > 0 {
			fmt.Printf("Keywords:   %s\n", strings.Join(suggestion.Keywords, ", "))
		} else {
			fmt.Println("Keywords:   (none)")
		}
		return nil
	},
}

func colorPriority(priority string) string {
	switch priority {
	case "critical":
		return color.RedString(priority)
	case "high":
		return color.YellowString(priority)
	case "low":
		return color.GreenString(priority)
	default:
		return priority
	}
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVarP(&classifyDescription, "description", "d", "", "Issue description to classify alongside the title")
}
