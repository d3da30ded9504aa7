package services_test

import (
	"context"
	"fmt"
	"time"

	"tracker/internal/models"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

// In-memory store fakes. Deliberately unsynchronized; tests here are
// single-goroutine.

type suggestionCall struct {
	issueID    int64
	category   classifier.Category
	confidence float64
	priority   classifier.Priority
}

type fakeIssueStore struct {
	nextID      int64
	issues      map[int64]*models.Issue
	suggestions []suggestionCall
	views       map[int64]int
}

func newFakeIssueStore() *fakeIssueStore {
	return &fakeIssueStore{issues: make(map[int64]*models.Issue), views: make(map[int64]int)}
}

func (f *fakeIssueStore) CreateIssue(ctx context.Context, issue *models.Issue) error {
	f.nextID++
	issue.ID = f.nextID
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now()
	}
	issue.UpdatedAt = issue.CreatedAt
	stored := *issue
	f.issues[issue.ID] = &stored
	return nil
}

func (f *fakeIssueStore) GetIssue(ctx context.Context, id int64) (*models.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *issue
	return &copied, nil
}

func (f *fakeIssueStore) UpdateIssue(ctx context.Context, issue *models.Issue) error {
	if _, ok := f.issues[issue.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *issue
	stored.UpdatedAt = time.Now()
	f.issues[issue.ID] = &stored
	return nil
}

func (f *fakeIssueStore) DeleteIssue(ctx context.Context, id int64) error {
	if _, ok := f.issues[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeIssueStore) ListIssues(ctx context.Context, params store.ListIssuesParams) ([]*models.Issue, error) {
	var out []*models.Issue
	for id := int64(1); id <= f.nextID; id++ {
		issue, ok := f.issues[id]
		if !ok {
			continue
		}
		if len(params.Statuses) > 0 && !containsStatus(params.Statuses, issue.Status) {
			continue
		}
		copied := *issue
		out = append(out, &copied)
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func containsStatus(statuses []models.Status, s models.Status) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

func (f *fakeIssueStore) SetAISuggestion(ctx context.Context, issueID int64, category classifier.Category, confidence float64, priority classifier.Priority) error {
	issue, ok := f.issues[issueID]
	if !ok {
		return store.ErrNotFound
	}
	issue.AISuggestedCategory = &category
	issue.AIConfidence = &confidence
	issue.AISuggestedPriority = &priority
	f.suggestions = append(f.suggestions, suggestionCall{issueID, category, confidence, priority})
	return nil
}

func (f *fakeIssueStore) IncrementViews(ctx context.Context, issueID int64) error {
	f.views[issueID]++
	return nil
}

func (f *fakeIssueStore) Ping(ctx context.Context) error { return nil }

type fakeNotificationStore struct {
	nextID        int64
	notifications []*models.Notification
}

func (f *fakeNotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	stored := *n
	f.notifications = append(f.notifications, &stored)
	return nil
}

func (f *fakeNotificationStore) FindUnreadNotification(ctx context.Context, recipientID, issueID int64, typ models.NotificationType) (*models.Notification, error) {
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && n.IssueID == issueID && n.Type == typ && !n.IsRead {
			copied := *n
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeNotificationStore) ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := *n
		out = append(out, &copied)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkNotificationRead(ctx context.Context, id int64) error {
	for _, n := range f.notifications {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeNotificationStore) forRecipient(recipientID int64) []*models.Notification {
	out, _ := f.ListNotifications(context.Background(), recipientID, false, 0)
	return out
}

type fakeWatcherStore struct {
	watchers map[int64][]int64
}

func newFakeWatcherStore() *fakeWatcherStore {
	return &fakeWatcherStore{watchers: make(map[int64][]int64)}
}

func (f *fakeWatcherStore) AddWatcher(ctx context.Context, issueID, userID int64) error {
	for _, id := range f.watchers[issueID] {
		if id == userID {
			return nil
		}
	}
	f.watchers[issueID] = append(f.watchers[issueID], userID)
	return nil
}

func (f *fakeWatcherStore) RemoveWatcher(ctx context.Context, issueID, userID int64) error {
	ids := f.watchers[issueID]
	for i, id := range ids {
		if id == userID {
			f.watchers[issueID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeWatcherStore) ListWatchers(ctx context.Context, issueID int64) ([]int64, error) {
	return append([]int64(nil), f.watchers[issueID]...), nil
}

type fakeUserStore struct {
	users map[int64]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeCommentStore struct {
	nextID   int64
	comments []*models.Comment
}

func (f *fakeCommentStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	f.comments = append(f.comments, &stored)
	return nil
}

func (f *fakeCommentStore) ListComments(ctx context.Context, issueID int64, includeInternal bool) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.IssueID != issueID {
			continue
		}
		if c.IsInternal && !includeInternal {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeActivityStore struct {
	nextID  int64
	entries []*models.ActivityLog
}

func (f *fakeActivityStore) RecordActivity(ctx context.Context, entry *models.ActivityLog) error {
	f.nextID++
	entry.ID = f.nextID
	entry.Timestamp = time.Now()
	stored := *entry
	f.entries = append(f.entries, &stored)
	return nil
}

func (f *fakeActivityStore) ListActivity(ctx context.Context, issueID int64, limit int) ([]*models.ActivityLog, error) {
	var out []*models.ActivityLog
	for _, e := range f.entries {
		if e.IssueID == issueID {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeActivityStore) byAction(action models.Action) []*models.ActivityLog {
	var out []*models.ActivityLog
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type fakeLabelStore struct {
	nextID      int64
	labels      map[string]*models.Label
	issueLabels map[int64][]int64
}

func newFakeLabelStore() *fakeLabelStore {
	return &fakeLabelStore{labels: make(map[string]*models.Label), issueLabels: make(map[int64][]int64)}
}

func (f *fakeLabelStore) CreateLabel(ctx context.Context, label *models.Label) error {
	if _, ok := f.labels[label.Name]; ok {
		return store.ErrDuplicate
	}
	f.nextID++
	label.ID = f.nextID
	f.labels[label.Name] = label
	return nil
}

func (f *fakeLabelStore) GetLabelByName(ctx context.Context, name string) (*models.Label, error) {
	label, ok := f.labels[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return label, nil
}

func (f *fakeLabelStore) ListLabels(ctx context.Context) ([]*models.Label, error) {
	var out []*models.Label
	for _, l := range f.labels {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLabelStore) AddLabelToIssue(ctx context.Context, issueID, labelID int64) error {
	for _, id := range f.issueLabels[issueID] {
		if id == labelID {
			return nil
		}
	}
	f.issueLabels[issueID] = append(f.issueLabels[issueID], labelID)
	return nil
}

func (f *fakeLabelStore) RemoveLabelFromIssue(ctx context.Context, issueID, labelID int64) error {
	ids := f.issueLabels[issueID]
	for i, id := range ids {
		if id == labelID {
			f.issueLabels[issueID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeLabelStore) GetIssueLabels(ctx context.Context, issueID int64) ([]*models.Label, error) {
	var out []*models.Label
	for _, labelID := range f.issueLabels[issueID] {
		for _, l := range f.labels {
			if l.ID == labelID {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (f *fakeLabelStore) GetLabelsForIssues(ctx context.Context, issueIDs []int64) (map[int64][]*models.Label, error) {
	out := make(map[int64][]*models.Label)
	for _, issueID := range issueIDs {
		labels, _ := f.GetIssueLabels(ctx, issueID)
		if len(labels) > 0 {
			out[issueID] = labels
		}
	}
	return out, nil
}

type fakeStatsStore struct {
	byStatus   map[models.Status]int
	byCategory map[classifier.Category]int
	byPriority map[classifier.Priority]int
	recent     int
	avgHours   *float64
	reported   int
	assigned   int
	resolved   int
}

func (f *fakeStatsStore) CountIssuesByStatus(ctx context.Context) (map[models.Status]int, error) {
	return f.byStatus, nil
}

func (f *fakeStatsStore) CountIssuesByCategory(ctx context.Context) (map[classifier.Category]int, error) {
	return f.byCategory, nil
}

func (f *fakeStatsStore) CountIssuesByPriority(ctx context.Context) (map[classifier.Priority]int, error) {
	return f.byPriority, nil
}

func (f *fakeStatsStore) CountIssuesCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return f.recent, nil
}

func (f *fakeStatsStore) AvgResolutionHours(ctx context.Context) (*float64, error) {
	return f.avgHours, nil
}

func (f *fakeStatsStore) CountUserIssues(ctx context.Context, userID int64) (int, int, int, error) {
	return f.reported, f.assigned, f.resolved, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

var errMailDown = fmt.Errorf("smtp connection refused")
