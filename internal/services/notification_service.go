package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tracker/internal/mail"
	"tracker/internal/models"
	"tracker/internal/store"
)

// NotificationService creates in-app notifications and fans changes out to
// watchers, with optional email delivery. All delivery is best-effort:
// notification failures are logged, never propagated to the triggering
// write.
type NotificationService struct {
	notifications store.NotificationStore
	watchers      store.WatcherStore
	users         store.UserStore
	mailer        mail.Sender // nil disables email
	jobs          store.JobClient
}

func NewNotificationService(ns store.NotificationStore, ws store.WatcherStore, us store.UserStore, mailer mail.Sender, jobs store.JobClient) *NotificationService {
	return &NotificationService{
		notifications: ns,
		watchers:      ws,
		users:         us,
		mailer:        mailer,
		jobs:          jobs,
	}
}

// Create stores a notification unless an identical unread one already
// exists, in which case the existing one is returned.
func (s *NotificationService) Create(ctx context.Context, recipientID, issueID int64, typ models.NotificationType, message string) (*models.Notification, error) {
	existing, err := s.notifications.FindUnreadNotification(ctx, recipientID, issueID, typ)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check for duplicate notification: %w", err)
	}

	n := &models.Notification{
		RecipientID: recipientID,
		IssueID:     issueID,
		Type:        typ,
		Message:     message,
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// NotifyAssignee informs a user they were assigned an issue, in-app and by
// email when the user allows it. Self-assignment is silent.
func (s *NotificationService) NotifyAssignee(ctx context.Context, issue *models.Issue, assignedByID int64) error {
	if issue.AssigneeID == nil || *issue.AssigneeID == assignedByID {
		return nil
	}

	actor, err := s.users.GetUser(ctx, assignedByID)
	if err != nil {
		return fmt.Errorf("load assigning user %d: %w", assignedByID, err)
	}

	message := fmt.Sprintf("%s assigned you to issue #%d: %s", actor.Username, issue.ID, issue.Title)
	if _, err := s.Create(ctx, *issue.AssigneeID, issue.ID, models.NotifyAssigned, message); err != nil {
		return err
	}

	subject := fmt.Sprintf("[IssueTracker] Assigned to Issue #%d", issue.ID)
	body := fmt.Sprintf("<p>%s</p><p>%s</p>", message, Excerpt(issue.Description, 2))
	s.sendEmail(ctx, *issue.AssigneeID, subject, body)
	return nil
}

// NotifyWatchers notifies every watcher of an issue except the actor.
func (s *NotificationService) NotifyWatchers(ctx context.Context, issueID, actorID int64, action models.Action, details string) error {
	watcherIDs, err := s.watchers.ListWatchers(ctx, issueID)
	if err != nil {
		return fmt.Errorf("list watchers for issue %d: %w", issueID, err)
	}
	if len(watcherIDs) == 0 {
		return nil
	}

	actor, err := s.users.GetUser(ctx, actorID)
	if err != nil {
		return fmt.Errorf("load acting user %d: %w", actorID, err)
	}

	verb := actionVerb(action)
	for _, watcherID := range watcherIDs {
		if watcherID == actorID {
			continue
		}
		message := fmt.Sprintf("%s %s on issue #%d: %s", actor.Username, verb, issueID, details)
		if _, err := s.Create(ctx, watcherID, issueID, models.NotifyIssueUpdated, message); err != nil {
			log.WithError(err).WithFields(log.Fields{"issue_id": issueID, "watcher_id": watcherID}).
				Warn("failed to notify watcher")
		}
	}
	return nil
}

// actionVerb renders an activity action as notification prose.
func actionVerb(action models.Action) string {
	switch action {
	case models.ActionStatusChanged:
		return "changed status"
	case models.ActionPriorityChanged:
		return "changed priority"
	case models.ActionCommented:
		return "commented"
	case models.ActionAssigned:
		return "changed assignee"
	default:
		return string(action)
	}
}

// sendEmail delivers asynchronously through the job queue when available,
// directly otherwise. Failures are logged and swallowed: email must never
// block or fail the underlying change.
func (s *NotificationService) sendEmail(ctx context.Context, userID int64, subject, htmlBody string) {
	if s.mailer == nil {
		return
	}
	if s.jobs != nil {
		if err := s.jobs.EnqueueEmail(ctx, userID, subject, htmlBody); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("failed to enqueue email")
		}
		return
	}
	s.DeliverEmail(ctx, userID, subject, htmlBody)
}

// DeliverEmail sends one email now, honoring the user's notification
// preference. Used inline and by the worker's email handler.
func (s *NotificationService) DeliverEmail(ctx context.Context, userID int64, subject, htmlBody string) {
	if s.mailer == nil {
		return
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("failed to load email recipient")
		return
	}
	if !user.EmailNotifications || user.Email == "" {
		return
	}
	if err := s.mailer.Send(ctx, user.Email, subject, htmlBody); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("failed to send email")
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*models.Notification, error) {
	return s.notifications.ListNotifications(ctx, userID, unreadOnly, limit)
}

// MarkRead flags a notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.notifications.MarkNotificationRead(ctx, id)
}
