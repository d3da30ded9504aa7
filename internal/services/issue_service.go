package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tracker/internal/models"
	"tracker/internal/observability/metrics"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

// IssueService owns the issue lifecycle: creation with auto-classification,
// change tracking with activity logging and notification fan-out, comments,
// and listing.
type IssueService struct {
	issues         store.IssueStore
	comments       store.CommentStore
	labels         store.LabelStore
	activity       store.ActivityStore
	watchers       store.WatcherStore
	notifier       *NotificationService
	classification *ClassificationService
	jobs           store.JobClient // nil means classify and fan out inline
	asyncClassify  bool
	metrics        *metrics.Metrics
}

type IssueServiceDeps struct {
	Issues         store.IssueStore
	Comments       store.CommentStore
	Labels         store.LabelStore
	Activity       store.ActivityStore
	Watchers       store.WatcherStore
	Notifier       *NotificationService
	Classification *ClassificationService
	Jobs           store.JobClient
	AsyncClassify  bool
	Metrics        *metrics.Metrics
}

func NewIssueService(deps IssueServiceDeps) *IssueService {
	return &IssueService{
		issues:         deps.Issues,
		comments:       deps.Comments,
		labels:         deps.Labels,
		activity:       deps.Activity,
		watchers:       deps.Watchers,
		notifier:       deps.Notifier,
		classification: deps.Classification,
		jobs:           deps.Jobs,
		asyncClassify:  deps.AsyncClassify,
		metrics:        deps.Metrics,
	}
}

type CreateIssueParams struct {
	Title          string
	Description    string
	Category       classifier.Category
	Priority       classifier.Priority
	ReporterID     int64
	AssigneeID     *int64
	EstimatedHours *float64
}

// CreateIssue persists a new issue and runs the side effects of creation:
// an activity entry, the reporter auto-watching, assignee notification, and
// classification. Every side effect is best-effort — a classifier or
// notification failure degrades to "no suggestion"/"no notification" and
// must never fail the create itself.
func (s *IssueService) CreateIssue(ctx context.Context, params CreateIssueParams) (*models.Issue, error) {
	if params.Category == "" {
		params.Category = classifier.CategoryBug
	}
	if params.Priority == "" {
		params.Priority = classifier.PriorityMedium
	}

	issue := &models.Issue{
		Title:          params.Title,
		Description:    params.Description,
		Status:         models.StatusOpen,
		Priority:       params.Priority,
		Category:       params.Category,
		ReporterID:     params.ReporterID,
		AssigneeID:     params.AssigneeID,
		EstimatedHours: params.EstimatedHours,
	}
	if err := s.issues.CreateIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IssueCreated(string(issue.Category), string(issue.Priority))
	}

	s.logActivity(ctx, issue.ID, params.ReporterID, models.ActionCreated,
		fmt.Sprintf("Created issue: %s", issue.Title), "", "")

	if err := s.watchers.AddWatcher(ctx, issue.ID, params.ReporterID); err != nil {
		log.WithError(err).WithField("issue_id", issue.ID).Warn("failed to auto-watch reporter")
	}

	if issue.AssigneeID != nil {
		if err := s.watchers.AddWatcher(ctx, issue.ID, *issue.AssigneeID); err != nil {
			log.WithError(err).WithField("issue_id", issue.ID).Warn("failed to auto-watch assignee")
		}
		if err := s.notifier.NotifyAssignee(ctx, issue, params.ReporterID); err != nil {
			log.WithError(err).WithField("issue_id", issue.ID).Warn("failed to notify assignee")
		}
	}

	s.classifyNewIssue(ctx, issue.ID)
	return issue, nil
}

// classifyNewIssue hands the fresh issue to the classifier, through the
// queue when configured, inline otherwise. Failures are logged only.
func (s *IssueService) classifyNewIssue(ctx context.Context, issueID int64) {
	if s.classification == nil {
		return
	}
	if s.jobs != nil && s.asyncClassify {
		if err := s.jobs.EnqueueClassifyIssue(ctx, issueID); err != nil {
			log.WithError(err).WithField("issue_id", issueID).Warn("failed to enqueue classification")
		}
		return
	}
	if err := s.classification.SuggestForIssue(ctx, issueID); err != nil {
		log.WithError(err).WithField("issue_id", issueID).Warn("classification failed")
	}
}

// UpdateIssueParams carries optional field changes; nil means "leave as is".
type UpdateIssueParams struct {
	Title          *string
	Description    *string
	Status         *models.Status
	Priority       *classifier.Priority
	Category       *classifier.Category
	AssigneeID     *int64
	ClearAssignee  bool
	DuplicateOfID  *int64
	ActualHours    *float64
}

// UpdateIssue applies the requested changes and records what changed:
// status and priority transitions land in the activity log, assignment
// changes notify the new assignee, and watchers hear about status changes.
func (s *IssueService) UpdateIssue(ctx context.Context, issueID, actorID int64, params UpdateIssueParams) (*models.Issue, error) {
	issue, err := s.issues.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	oldStatus := issue.Status
	oldPriority := issue.Priority
	oldAssignee := issue.AssigneeID

	if params.Title != nil {
		issue.Title = *params.Title
	}
	if params.Description != nil {
		issue.Description = *params.Description
	}
	if params.Status != nil {
		if !models.ValidStatus(*params.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, *params.Status)
		}
		issue.Status = *params.Status
	}
	if params.Priority != nil {
		issue.Priority = *params.Priority
	}
	if params.Category != nil {
		issue.Category = *params.Category
	}
	if params.ClearAssignee {
		issue.AssigneeID = nil
	} else if params.AssigneeID != nil {
		issue.AssigneeID = params.AssigneeID
	}
	if params.DuplicateOfID != nil {
		issue.DuplicateOfID = params.DuplicateOfID
	}
	if params.ActualHours != nil {
		issue.ActualHours = params.ActualHours
	}

	if err := s.issues.UpdateIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("update issue %d: %w", issueID, err)
	}

	if issue.Status != oldStatus {
		s.logActivity(ctx, issueID, actorID, models.ActionStatusChanged,
			"Status changed", string(oldStatus), string(issue.Status))
		s.fanOut(ctx, issueID, actorID, models.ActionStatusChanged,
			fmt.Sprintf("from %s to %s", oldStatus, issue.Status))
	}

	if issue.Priority != oldPriority {
		s.logActivity(ctx, issueID, actorID, models.ActionPriorityChanged,
			"Priority changed", string(oldPriority), string(issue.Priority))
	}

	if !sameAssignee(oldAssignee, issue.AssigneeID) {
		if issue.AssigneeID != nil {
			s.logActivity(ctx, issueID, actorID, models.ActionAssigned,
				fmt.Sprintf("Assigned to user %d", *issue.AssigneeID), "", "")
			if err := s.watchers.AddWatcher(ctx, issueID, *issue.AssigneeID); err != nil {
				log.WithError(err).WithField("issue_id", issueID).Warn("failed to auto-watch assignee")
			}
			if err := s.notifier.NotifyAssignee(ctx, issue, actorID); err != nil {
				log.WithError(err).WithField("issue_id", issueID).Warn("failed to notify assignee")
			}
		} else {
			s.logActivity(ctx, issueID, actorID, models.ActionUnassigned, "Unassigned issue", "", "")
		}
	}

	return issue, nil
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// GetIssue loads an issue and counts the view.
func (s *IssueService) GetIssue(ctx context.Context, id int64) (*models.Issue, error) {
	issue, err := s.issues.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.issues.IncrementViews(ctx, id); err != nil {
		log.WithError(err).WithField("issue_id", id).Warn("failed to count view")
	}
	return issue, nil
}

func (s *IssueService) ListIssues(ctx context.Context, params store.ListIssuesParams) ([]*models.Issue, error) {
	return s.issues.ListIssues(ctx, params)
}

// AddComment stores a comment, logs it, fans out to watchers and makes the
// commenter a watcher.
func (s *IssueService) AddComment(ctx context.Context, issueID, authorID int64, content string, isInternal bool) (*models.Comment, error) {
	comment := &models.Comment{
		IssueID:    issueID,
		AuthorID:   authorID,
		Content:    content,
		IsInternal: isInternal,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment to issue %d: %w", issueID, err)
	}

	s.logActivity(ctx, issueID, authorID, models.ActionCommented, "Added a comment", "", "")
	s.fanOut(ctx, issueID, authorID, models.ActionCommented, Excerpt(content, 1))

	if err := s.watchers.AddWatcher(ctx, issueID, authorID); err != nil {
		log.WithError(err).WithField("issue_id", issueID).Warn("failed to auto-watch commenter")
	}
	return comment, nil
}

func (s *IssueService) ListComments(ctx context.Context, issueID int64, includeInternal bool) ([]*models.Comment, error) {
	return s.comments.ListComments(ctx, issueID, includeInternal)
}

func (s *IssueService) ListActivity(ctx context.Context, issueID int64, limit int) ([]*models.ActivityLog, error) {
	return s.activity.ListActivity(ctx, issueID, limit)
}

// AttachLabel links a label to an issue by name and logs it.
func (s *IssueService) AttachLabel(ctx context.Context, issueID, actorID int64, labelName string) error {
	label, err := s.labels.GetLabelByName(ctx, labelName)
	if err != nil {
		return err
	}
	if err := s.labels.AddLabelToIssue(ctx, issueID, label.ID); err != nil {
		return err
	}
	s.logActivity(ctx, issueID, actorID, models.ActionLabeled,
		fmt.Sprintf("Added label: %s", label.Name), "", "")
	return nil
}

// DetachLabel removes a label from an issue by name and logs it.
func (s *IssueService) DetachLabel(ctx context.Context, issueID, actorID int64, labelName string) error {
	label, err := s.labels.GetLabelByName(ctx, labelName)
	if err != nil {
		return err
	}
	if err := s.labels.RemoveLabelFromIssue(ctx, issueID, label.ID); err != nil {
		return err
	}
	s.logActivity(ctx, issueID, actorID, models.ActionUnlabeled,
		fmt.Sprintf("Removed label: %s", label.Name), "", "")
	return nil
}

// logActivity records an activity entry, logging failures instead of
// surfacing them: the log trails the write, it does not gate it.
func (s *IssueService) logActivity(ctx context.Context, issueID, userID int64, action models.Action, details, oldValue, newValue string) {
	entry := &models.ActivityLog{
		IssueID:  issueID,
		UserID:   userID,
		Action:   action,
		Details:  details,
		OldValue: oldValue,
		NewValue: newValue,
	}
	if err := s.activity.RecordActivity(ctx, entry); err != nil {
		log.WithError(err).WithFields(log.Fields{"issue_id": issueID, "action": action}).
			Warn("failed to record activity")
	}
}

// fanOut notifies watchers through the queue when available, inline
// otherwise.
func (s *IssueService) fanOut(ctx context.Context, issueID, actorID int64, action models.Action, details string) {
	if s.jobs != nil {
		if err := s.jobs.EnqueueNotifyWatchers(ctx, issueID, actorID, action, details); err != nil {
			log.WithError(err).WithField("issue_id", issueID).Warn("failed to enqueue watcher fan-out")
		}
		return
	}
	if err := s.notifier.NotifyWatchers(ctx, issueID, actorID, action, details); err != nil {
		log.WithError(err).WithField("issue_id", issueID).Warn("failed to notify watchers")
	}
}
