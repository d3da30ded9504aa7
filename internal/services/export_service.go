package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tracker/internal/models"
	"tracker/internal/store"
)

// ExportService streams issue listings as CSV.
type ExportService struct {
	issues store.IssueStore
	labels store.LabelStore
	users  store.UserStore
}

func NewExportService(issues store.IssueStore, labels store.LabelStore, users store.UserStore) *ExportService {
	return &ExportService{issues: issues, labels: labels, users: users}
}

var exportHeader = []string{
	"ID", "Title", "Status", "Priority", "Category",
	"Reporter", "Assignee", "Created", "Updated", "Resolved",
	"Estimated Hours", "Actual Hours", "Labels",
}

const exportTimeLayout = "2006-01-02 15:04"

// WriteCSV writes the filtered issues to w. Labels and usernames are
// batch-fetched so the export stays at a fixed number of queries.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, params store.ListIssuesParams) error {
	issues, err := s.issues.ListIssues(ctx, params)
	if err != nil {
		return fmt.Errorf("list issues for export: %w", err)
	}

	issueIDs := make([]int64, 0, len(issues))
	userIDSet := make(map[int64]struct{})
	for _, issue := range issues {
		issueIDs = append(issueIDs, issue.ID)
		userIDSet[issue.ReporterID] = struct{}{}
		if issue.AssigneeID != nil {
			userIDSet[*issue.AssigneeID] = struct{}{}
		}
	}

	labelsByIssue, err := s.labels.GetLabelsForIssues(ctx, issueIDs)
	if err != nil {
		return fmt.Errorf("fetch labels for export: %w", err)
	}

	userIDs := make([]int64, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	usersByID, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("fetch users for export: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, issue := range issues {
		labelNames := make([]string, 0, len(labelsByIssue[issue.ID]))
		for _, label := range labelsByIssue[issue.ID] {
			labelNames = append(labelNames, label.Name)
		}

		row := []string{
			strconv.FormatInt(issue.ID, 10),
			issue.Title,
			displayName(string(issue.Status)),
			displayName(string(issue.Priority)),
			displayName(string(issue.Category)),
			username(usersByID, issue.ReporterID),
			assigneeName(usersByID, issue.AssigneeID),
			issue.CreatedAt.Format(exportTimeLayout),
			issue.UpdatedAt.Format(exportTimeLayout),
			formatResolved(issue.ResolvedAt),
			formatHours(issue.EstimatedHours),
			formatHours(issue.ActualHours),
			strings.Join(labelNames, ", "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row for issue %d: %w", issue.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// displayName turns an enum value like "in_progress" into "In Progress".
func displayName(value string) string {
	words := strings.Split(value, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func username(users map[int64]*models.User, id int64) string {
	if u, ok := users[id]; ok {
		return u.Username
	}
	return fmt.Sprintf("user#%d", id)
}

func assigneeName(users map[int64]*models.User, id *int64) string {
	if id == nil {
		return "Unassigned"
	}
	return username(users, *id)
}

func formatResolved(t *time.Time) string {
	if t == nil {
		return "Not resolved"
	}
	return t.Format(exportTimeLayout)
}

func formatHours(hours *float64) string {
	if hours == nil {
		return ""
	}
	return strconv.FormatFloat(*hours, 'f', -1, 64)
}
