package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/models"
	"tracker/internal/services"
	"tracker/pkg/classifier"
)

func TestIssueStatistics(t *testing.T) {
	avg := 12.34
	stats := &fakeStatsStore{
		byStatus: map[models.Status]int{
			models.StatusOpen:       4,
			models.StatusInProgress: 2,
			models.StatusResolved:   3,
			models.StatusClosed:     1,
		},
		byCategory: map[classifier.Category]int{classifier.CategoryBug: 6, classifier.CategoryFeature: 4},
		byPriority: map[classifier.Priority]int{classifier.PriorityHigh: 5, classifier.PriorityMedium: 5},
		recent:     3,
		avgHours:   &avg,
	}

	issues := newFakeIssueStore()
	// Critical issues go overdue after 24 hours; this one is two days old.
	stale := &models.Issue{
		Title:      "stale critical",
		Status:     models.StatusOpen,
		Priority:   classifier.PriorityCritical,
		ReporterID: 1,
		CreatedAt:  time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, issues.CreateIssue(context.Background(), stale))
	fresh := &models.Issue{
		Title:      "fresh critical",
		Status:     models.StatusOpen,
		Priority:   classifier.PriorityCritical,
		ReporterID: 1,
	}
	require.NoError(t, issues.CreateIssue(context.Background(), fresh))

	svc := services.NewStatsService(stats, issues)
	got, err := svc.IssueStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 4, got.Open)
	assert.Equal(t, 2, got.InProgress)
	assert.Equal(t, 3, got.Resolved)
	assert.Equal(t, 1, got.Closed)
	assert.Equal(t, 3, got.Recent)
	assert.Equal(t, 6, got.ByCategory[classifier.CategoryBug])
	assert.Equal(t, 1, got.OverdueCount)

	require.NotNil(t, got.AvgResolutionHours)
	assert.Equal(t, 12.3, *got.AvgResolutionHours)
}

func TestIssueStatisticsNoResolvedIssues(t *testing.T) {
	stats := &fakeStatsStore{byStatus: map[models.Status]int{}}
	svc := services.NewStatsService(stats, newFakeIssueStore())

	got, err := svc.IssueStatistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.Total)
	assert.Nil(t, got.AvgResolutionHours)
}

func TestUserStatistics(t *testing.T) {
	stats := &fakeStatsStore{reported: 10, assigned: 8, resolved: 5}
	svc := services.NewStatsService(stats, newFakeIssueStore())

	got, err := svc.UserStatistics(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ReportedIssues)
	assert.Equal(t, 8, got.AssignedIssues)
	assert.Equal(t, 5, got.ResolvedIssues)
	assert.Equal(t, 62.5, got.ResolutionRate)
}

func TestUserStatisticsNoAssignments(t *testing.T) {
	stats := &fakeStatsStore{reported: 2}
	svc := services.NewStatsService(stats, newFakeIssueStore())

	got, err := svc.UserStatistics(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, got.ResolutionRate)
}

func TestOverdueSweep(t *testing.T) {
	ctx := context.Background()
	issues := newFakeIssueStore()
	ns := &fakeNotificationStore{}
	bob := &models.User{ID: 2, Username: "bob"}
	notifier := services.NewNotificationService(ns, newFakeWatcherStore(), newFakeUserStore(bob), nil, nil)

	assigneeID := bob.ID
	overdue := &models.Issue{
		Title:      "ancient critical",
		Status:     models.StatusOpen,
		Priority:   classifier.PriorityCritical,
		ReporterID: 1,
		AssigneeID: &assigneeID,
		CreatedAt:  time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, issues.CreateIssue(ctx, overdue))

	// Overdue but unassigned: nobody to nudge.
	orphan := &models.Issue{
		Title:      "ancient orphan",
		Status:     models.StatusOpen,
		Priority:   classifier.PriorityCritical,
		ReporterID: 1,
		CreatedAt:  time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, issues.CreateIssue(ctx, orphan))

	fresh := &models.Issue{
		Title:      "fresh",
		Status:     models.StatusOpen,
		Priority:   classifier.PriorityCritical,
		ReporterID: 1,
		AssigneeID: &assigneeID,
	}
	require.NoError(t, issues.CreateIssue(ctx, fresh))

	svc := services.NewOverdueService(issues, notifier)

	notified, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)

	got := ns.forRecipient(bob.ID)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "overdue")

	// A second sweep dedupes against the unread notification.
	notified, err = svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
	assert.Len(t, ns.forRecipient(bob.ID), 1)
}
