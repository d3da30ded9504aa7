package store

import (
	"context"
	"time"

	"tracker/internal/models"
	"tracker/pkg/classifier"
)

// ListIssuesParams filters and pages issue listings.
type ListIssuesParams struct {
	Limit      int
	Offset     int
	Statuses   []models.Status
	Priority   classifier.Priority
	Category   classifier.Category
	ReporterID int64
	AssigneeID int64
	SortBy     string
	SortOrder  string
}

type IssueStore interface {
	CreateIssue(ctx context.Context, issue *models.Issue) error
	GetIssue(ctx context.Context, id int64) (*models.Issue, error)
	UpdateIssue(ctx context.Context, issue *models.Issue) error
	DeleteIssue(ctx context.Context, id int64) error
	ListIssues(ctx context.Context, params ListIssuesParams) ([]*models.Issue, error)
	// SetAISuggestion writes only the advisory classifier fields, so the
	// suggestion cannot clobber concurrent user edits.
	SetAISuggestion(ctx context.Context, issueID int64, category classifier.Category, confidence float64, priority classifier.Priority) error
	IncrementViews(ctx context.Context, issueID int64) error

	Ping(ctx context.Context) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, issueID int64, includeInternal bool) ([]*models.Comment, error)
}

type LabelStore interface {
	CreateLabel(ctx context.Context, label *models.Label) error
	GetLabelByName(ctx context.Context, name string) (*models.Label, error)
	ListLabels(ctx context.Context) ([]*models.Label, error)
	AddLabelToIssue(ctx context.Context, issueID, labelID int64) error
	RemoveLabelFromIssue(ctx context.Context, issueID, labelID int64) error
	GetIssueLabels(ctx context.Context, issueID int64) ([]*models.Label, error)
	GetLabelsForIssues(ctx context.Context, issueIDs []int64) (map[int64][]*models.Label, error)
}

type ActivityStore interface {
	RecordActivity(ctx context.Context, entry *models.ActivityLog) error
	ListActivity(ctx context.Context, issueID int64, limit int) ([]*models.ActivityLog, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	// FindUnreadNotification locates an existing unread notification with
	// the same recipient, issue and type, for deduplication.
	FindUnreadNotification(ctx context.Context, recipientID, issueID int64, typ models.NotificationType) (*models.Notification, error)
	ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
}

type WatcherStore interface {
	AddWatcher(ctx context.Context, issueID, userID int64) error
	RemoveWatcher(ctx context.Context, issueID, userID int64) error
	ListWatchers(ctx context.Context, issueID int64) ([]int64, error)
}

// IssueStatistics mirrors the dashboard's summary block.
type IssueStatistics struct {
	Total              int
	Open               int
	InProgress         int
	Resolved           int
	Closed             int
	ByCategory         map[classifier.Category]int
	ByPriority         map[classifier.Priority]int
	Recent             int
	AvgResolutionHours *float64
	OverdueCount       int
}

// UserStatistics summarizes a single user's issue involvement.
type UserStatistics struct {
	ReportedIssues int
	AssignedIssues int
	ResolvedIssues int
	ResolutionRate float64
}

type StatsStore interface {
	CountIssuesByStatus(ctx context.Context) (map[models.Status]int, error)
	CountIssuesByCategory(ctx context.Context) (map[classifier.Category]int, error)
	CountIssuesByPriority(ctx context.Context) (map[classifier.Priority]int, error)
	CountIssuesCreatedSince(ctx context.Context, since time.Time) (int, error)
	AvgResolutionHours(ctx context.Context) (*float64, error)
	CountUserIssues(ctx context.Context, userID int64) (reported, assigned, resolved int, err error)
}

// PrimaryStore is the full persistence surface. The PostgreSQL implementation
// satisfies every per-concern interface through one connection pool.
type PrimaryStore interface {
	IssueStore
	CommentStore
	LabelStore
	ActivityStore
	NotificationStore
	UserStore
	WatcherStore
	StatsStore
	Close()
}
