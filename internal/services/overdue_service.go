package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"tracker/internal/models"
	"tracker/internal/store"
)

// OverdueService nudges assignees about issues that have outlived their
// priority's age limit. Run periodically by the worker.
type OverdueService struct {
	issues   store.IssueStore
	notifier *NotificationService
	now      func() time.Time
}

func NewOverdueService(issues store.IssueStore, notifier *NotificationService) *OverdueService {
	return &OverdueService{issues: issues, notifier: notifier, now: time.Now}
}

// Sweep notifies the assignee of every overdue open/in-progress issue and
// returns how many notifications were attempted. Unassigned issues are
// skipped; there is nobody to nudge. Notification dedupe keeps repeated
// sweeps from piling up unread copies.
func (s *OverdueService) Sweep(ctx context.Context) (int, error) {
	issues, err := s.issues.ListIssues(ctx, store.ListIssuesParams{
		Statuses: []models.Status{models.StatusOpen, models.StatusInProgress},
	})
	if err != nil {
		return 0, fmt.Errorf("list issues for overdue sweep: %w", err)
	}

	now := s.now()
	notified := 0
	for _, issue := range issues {
		if issue.AssigneeID == nil || !issue.IsOverdue(now) {
			continue
		}
		message := fmt.Sprintf("Issue #%d is overdue and needs attention", issue.ID)
		if _, err := s.notifier.Create(ctx, *issue.AssigneeID, issue.ID, models.NotifyIssueUpdated, message); err != nil {
			log.WithError(err).WithField("issue_id", issue.ID).Warn("failed to send overdue notification")
			continue
		}
		notified++
	}
	return notified, nil
}
