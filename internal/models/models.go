package models

import (
	"time"

	"tracker/pkg/classifier"
)

// Status tracks an issue through its lifecycle.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
	StatusReopened   Status = "reopened"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusOnHold, StatusResolved, StatusClosed, StatusReopened:
		return true
	}
	return false
}

// User is a tracker account. Email notifications are opt-out per user.
type User struct {
	ID                 int64     `db:"id"`
	Username           string    `db:"username"`
	Email              string    `db:"email"`
	Department         string    `db:"department"`
	EmailNotifications bool      `db:"email_notifications"`
	CreatedAt          time.Time `db:"created_at"`
}

type Issue struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`

	Status   Status              `db:"status"`
	Priority classifier.Priority `db:"priority"`
	Category classifier.Category `db:"category"`

	// Advisory fields written by the classifier, kept separate from the
	// user-chosen category/priority above.
	AISuggestedCategory *classifier.Category `db:"ai_suggested_category"`
	AIConfidence        *float64             `db:"ai_confidence"`
	AISuggestedPriority *classifier.Priority `db:"ai_suggested_priority"`

	ReporterID    int64  `db:"reporter_id"`
	AssigneeID    *int64 `db:"assignee_id"`
	DuplicateOfID *int64 `db:"duplicate_of_id"`

	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	ResolvedAt *time.Time `db:"resolved_at"`
	ClosedAt   *time.Time `db:"closed_at"`

	ViewsCount int `db:"views_count"`
	Upvotes    int `db:"upvotes"`

	EstimatedHours *float64 `db:"estimated_hours"`
	ActualHours    *float64 `db:"actual_hours"`
}

// overdueLimits is the maximum age in hours an issue may sit unresolved,
// keyed by priority.
var overdueLimits = map[classifier.Priority]float64{
	classifier.PriorityCritical: 24,
	classifier.PriorityHigh:     72,
	classifier.PriorityMedium:   168,
	classifier.PriorityLow:      336,
}

// TimeToResolve returns the resolution time in hours, or nil while the
// issue is unresolved.
func (i *Issue) TimeToResolve() *float64 {
	if i.ResolvedAt == nil {
		return nil
	}
	hours := i.ResolvedAt.Sub(i.CreatedAt).Hours()
	return &hours
}

// IsOverdue reports whether the issue has exceeded its priority's age
// limit. Resolved and closed issues are never overdue.
func (i *Issue) IsOverdue(now time.Time) bool {
	if i.Status == StatusResolved || i.Status == StatusClosed {
		return false
	}
	limit, ok := overdueLimits[i.Priority]
	if !ok {
		limit = overdueLimits[classifier.PriorityMedium]
	}
	return now.Sub(i.CreatedAt).Hours() > limit
}

type Comment struct {
	ID       int64  `db:"id"`
	IssueID  int64  `db:"issue_id"`
	AuthorID int64  `db:"author_id"`
	Content  string `db:"content"`
	// Internal comments are hidden from reporters.
	IsInternal bool      `db:"is_internal"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Label struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Color       string    `db:"color"`
	Description string    `db:"description"`
	CreatedByID *int64    `db:"created_by_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// DefaultLabelColor matches the UI's muted gray.
const DefaultLabelColor = "#6c757d"

// Action identifies what an activity log entry records.
type Action string

const (
	ActionCreated         Action = "created"
	ActionUpdated         Action = "updated"
	ActionCommented       Action = "commented"
	ActionStatusChanged   Action = "status_changed"
	ActionPriorityChanged Action = "priority_changed"
	ActionAssigned        Action = "assigned"
	ActionUnassigned      Action = "unassigned"
	ActionLabeled         Action = "labeled"
	ActionUnlabeled       Action = "unlabeled"
	ActionAttached        Action = "attached"
	ActionClosed          Action = "closed"
	ActionReopened        Action = "reopened"
)

type ActivityLog struct {
	ID        int64     `db:"id"`
	IssueID   int64     `db:"issue_id"`
	UserID    int64     `db:"user_id"`
	Action    Action    `db:"action"`
	Details   string    `db:"details"`
	OldValue  string    `db:"old_value"`
	NewValue  string    `db:"new_value"`
	Timestamp time.Time `db:"timestamp"`
}

// NotificationType identifies why a user is being notified.
type NotificationType string

const (
	NotifyAssigned     NotificationType = "assigned"
	NotifyMentioned    NotificationType = "mentioned"
	NotifyStatusChange NotificationType = "status_change"
	NotifyNewComment   NotificationType = "new_comment"
	NotifyIssueUpdated NotificationType = "issue_updated"
)

type Notification struct {
	ID          int64            `db:"id"`
	RecipientID int64            `db:"recipient_id"`
	IssueID     int64            `db:"issue_id"`
	Type        NotificationType `db:"notification_type"`
	Message     string           `db:"message"`
	IsRead      bool             `db:"is_read"`
	CreatedAt   time.Time        `db:"created_at"`
}
