package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/models"
	"tracker/internal/services"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

func TestWriteCSV(t *testing.T) {
	ctx := context.Background()
	issues := newFakeIssueStore()
	labels := newFakeLabelStore()
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}
	users := newFakeUserStore(alice, bob)

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	resolved := created.Add(26 * time.Hour)
	estimate := 4.5

	assigneeID := bob.ID
	first := &models.Issue{
		Title:          "Login broken",
		Status:         models.StatusResolved,
		Priority:       classifier.PriorityHigh,
		Category:       classifier.CategoryBug,
		ReporterID:     alice.ID,
		AssigneeID:     &assigneeID,
		CreatedAt:      created,
		ResolvedAt:     &resolved,
		EstimatedHours: &estimate,
	}
	require.NoError(t, issues.CreateIssue(ctx, first))

	second := &models.Issue{
		Title:      "Add dark mode",
		Status:     models.StatusInProgress,
		Priority:   classifier.PriorityLow,
		Category:   classifier.CategoryFeature,
		ReporterID: bob.ID,
		CreatedAt:  created,
	}
	require.NoError(t, issues.CreateIssue(ctx, second))

	regression := &models.Label{Name: "regression"}
	auth := &models.Label{Name: "auth"}
	require.NoError(t, labels.CreateLabel(ctx, regression))
	require.NoError(t, labels.CreateLabel(ctx, auth))
	require.NoError(t, labels.AddLabelToIssue(ctx, first.ID, regression.ID))
	require.NoError(t, labels.AddLabelToIssue(ctx, first.ID, auth.ID))

	svc := services.NewExportService(issues, labels, users)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(ctx, &buf, store.ListIssuesParams{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"ID", "Title", "Status", "Priority", "Category",
		"Reporter", "Assignee", "Created", "Updated", "Resolved",
		"Estimated Hours", "Actual Hours", "Labels",
	}, records[0])

	assert.Equal(t, []string{
		"1", "Login broken", "Resolved", "High", "Bug",
		"alice", "bob", "2026-03-14 09:30", "2026-03-14 09:30", "2026-03-15 11:30",
		"4.5", "", "regression, auth",
	}, records[1])

	assert.Equal(t, []string{
		"2", "Add dark mode", "In Progress", "Low", "Feature",
		"bob", "Unassigned", "2026-03-14 09:30", "2026-03-14 09:30", "Not resolved",
		"", "", "",
	}, records[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	svc := services.NewExportService(newFakeIssueStore(), newFakeLabelStore(), newFakeUserStore())

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf, store.ListIssuesParams{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}
