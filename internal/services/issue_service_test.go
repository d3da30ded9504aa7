package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/models"
	"tracker/internal/services"
	"tracker/pkg/classifier"
)

type issueServiceFixture struct {
	issues        *fakeIssueStore
	comments      *fakeCommentStore
	labels        *fakeLabelStore
	activity      *fakeActivityStore
	watchers      *fakeWatcherStore
	notifications *fakeNotificationStore
	svc           *services.IssueService
}

func newIssueServiceFixture(users ...*models.User) *issueServiceFixture {
	f := &issueServiceFixture{
		issues:        newFakeIssueStore(),
		comments:      &fakeCommentStore{},
		labels:        newFakeLabelStore(),
		activity:      &fakeActivityStore{},
		watchers:      newFakeWatcherStore(),
		notifications: &fakeNotificationStore{},
	}
	userStore := newFakeUserStore(users...)
	notifier := services.NewNotificationService(f.notifications, f.watchers, userStore, nil, nil)
	classification := services.NewClassificationService(classifier.NewRuleClassifier(), f.issues, 0.4, nil)
	f.svc = services.NewIssueService(services.IssueServiceDeps{
		Issues:         f.issues,
		Comments:       f.comments,
		Labels:         f.labels,
		Activity:       f.activity,
		Watchers:       f.watchers,
		Notifier:       notifier,
		Classification: classification,
	})
	return f
}

func TestCreateIssueDefaultsAndSideEffects(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	f := newIssueServiceFixture(alice)
	ctx := context.Background()

	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{
		Title:       "crash",
		Description: "add",
		ReporterID:  alice.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusOpen, issue.Status)
	assert.Equal(t, classifier.CategoryBug, issue.Category)
	assert.Equal(t, classifier.PriorityMedium, issue.Priority)

	created := f.activity.byAction(models.ActionCreated)
	require.Len(t, created, 1)
	assert.Equal(t, "Created issue: crash", created[0].Details)

	watchers, err := f.watchers.ListWatchers(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{alice.ID}, watchers)

	// Classification runs inline without a job client. "crash" in the title
	// against "add" in the body lands at bug with confidence 0.73, above
	// the 0.4 threshold.
	require.Len(t, f.issues.suggestions, 1)
	suggestion := f.issues.suggestions[0]
	assert.Equal(t, issue.ID, suggestion.issueID)
	assert.Equal(t, classifier.CategoryBug, suggestion.category)
	assert.Equal(t, 0.73, suggestion.confidence)
	assert.Equal(t, classifier.PriorityMedium, suggestion.priority)
}

func TestCreateIssueLowConfidenceSkipsSuggestion(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	f := newIssueServiceFixture(alice)

	// No category keyword at all: default (task, 0.30) is at the floor and
	// below the 0.4 threshold, so nothing is stored.
	_, err := f.svc.CreateIssue(context.Background(), services.CreateIssueParams{
		Title:       "zzz qqq",
		Description: "xyzzy plugh",
		ReporterID:  alice.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, f.issues.suggestions)
}

func TestCreateIssueNotifiesAssignee(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}
	f := newIssueServiceFixture(alice, bob)
	ctx := context.Background()

	assigneeID := bob.ID
	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{
		Title:       "crash on save",
		Description: "the editor crashes",
		ReporterID:  alice.ID,
		AssigneeID:  &assigneeID,
	})
	require.NoError(t, err)

	watchers, err := f.watchers.ListWatchers(ctx, issue.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{alice.ID, bob.ID}, watchers)

	got := f.notifications.forRecipient(bob.ID)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotifyAssigned, got[0].Type)
}

func TestUpdateIssueStatusChange(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	carol := &models.User{ID: 3, Username: "carol"}
	f := newIssueServiceFixture(alice, carol)
	ctx := context.Background()

	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{
		Title:      "flaky test",
		ReporterID: alice.ID,
	})
	require.NoError(t, err)
	require.NoError(t, f.watchers.AddWatcher(ctx, issue.ID, carol.ID))

	resolved := models.StatusResolved
	updated, err := f.svc.UpdateIssue(ctx, issue.ID, alice.ID, services.UpdateIssueParams{Status: &resolved})
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)

	entries := f.activity.byAction(models.ActionStatusChanged)
	require.Len(t, entries, 1)
	assert.Equal(t, "open", entries[0].OldValue)
	assert.Equal(t, "resolved", entries[0].NewValue)

	// The actor hears nothing; the other watcher does.
	assert.Empty(t, f.notifications.forRecipient(alice.ID))
	got := f.notifications.forRecipient(carol.ID)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "from open to resolved")
}

func TestUpdateIssueRejectsUnknownStatus(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	f := newIssueServiceFixture(alice)
	ctx := context.Background()

	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{Title: "ok", ReporterID: alice.ID})
	require.NoError(t, err)

	bogus := models.Status("abandoned")
	_, err = f.svc.UpdateIssue(ctx, issue.ID, alice.ID, services.UpdateIssueParams{Status: &bogus})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateIssueReassignment(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}
	f := newIssueServiceFixture(alice, bob)
	ctx := context.Background()

	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{Title: "needs an owner", ReporterID: alice.ID})
	require.NoError(t, err)

	assigneeID := bob.ID
	updated, err := f.svc.UpdateIssue(ctx, issue.ID, alice.ID, services.UpdateIssueParams{AssigneeID: &assigneeID})
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, bob.ID, *updated.AssigneeID)

	assert.Len(t, f.activity.byAction(models.ActionAssigned), 1)
	assert.Len(t, f.notifications.forRecipient(bob.ID), 1)

	watchers, err := f.watchers.ListWatchers(ctx, issue.ID)
	require.NoError(t, err)
	assert.Contains(t, watchers, bob.ID)

	// Clearing logs an unassignment and notifies nobody new.
	_, err = f.svc.UpdateIssue(ctx, issue.ID, alice.ID, services.UpdateIssueParams{ClearAssignee: true})
	require.NoError(t, err)
	assert.Len(t, f.activity.byAction(models.ActionUnassigned), 1)
}

func TestAddCommentSideEffects(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}
	f := newIssueServiceFixture(alice, bob)
	ctx := context.Background()

	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{Title: "discussion", ReporterID: alice.ID})
	require.NoError(t, err)

	comment, err := f.svc.AddComment(ctx, issue.ID, bob.ID, "First sentence. Second sentence.", false)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	assert.Len(t, f.activity.byAction(models.ActionCommented), 1)

	// Commenter becomes a watcher; the reporter is notified with only the
	// first sentence of the comment.
	watchers, err := f.watchers.ListWatchers(ctx, issue.ID)
	require.NoError(t, err)
	assert.Contains(t, watchers, bob.ID)

	got := f.notifications.forRecipient(alice.ID)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "First sentence.")
	assert.NotContains(t, got[0].Message, "Second sentence.")
}

func TestAttachAndDetachLabel(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	f := newIssueServiceFixture(alice)
	ctx := context.Background()

	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{Title: "needs labels", ReporterID: alice.ID})
	require.NoError(t, err)

	require.NoError(t, f.labels.CreateLabel(ctx, &models.Label{Name: "regression"}))

	require.NoError(t, f.svc.AttachLabel(ctx, issue.ID, alice.ID, "regression"))
	attached, err := f.labels.GetIssueLabels(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "regression", attached[0].Name)

	require.NoError(t, f.svc.DetachLabel(ctx, issue.ID, alice.ID, "regression"))
	attached, err = f.labels.GetIssueLabels(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	err = f.svc.AttachLabel(ctx, issue.ID, alice.ID, "no-such-label")
	assert.Error(t, err)
}

func TestGetIssueCountsView(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	f := newIssueServiceFixture(alice)
	ctx := context.Background()

	issue, err := f.svc.CreateIssue(ctx, services.CreateIssueParams{Title: "popular", ReporterID: alice.ID})
	require.NoError(t, err)

	_, err = f.svc.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	_, err = f.svc.GetIssue(ctx, issue.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, f.issues.views[issue.ID])
}
