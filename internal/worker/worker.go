package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"tracker/internal/observability/metrics"
	"tracker/internal/services"
	"tracker/internal/tasks"
)

// Deps bundles the services the task handlers need. Optional fields may be
// nil; the corresponding handler is simply not registered.
type Deps struct {
	Classification *services.ClassificationService
	Notifications  *services.NotificationService
	Overdue        *services.OverdueService
	Metrics        *metrics.Metrics
}

// RegisterHandlers wires every available task handler onto the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps Deps) {
	if deps.Classification != nil {
		mux.HandleFunc(tasks.TypeClassifyIssue, instrument(deps.Metrics, tasks.TypeClassifyIssue, HandleClassifyIssue(deps)))
	}
	if deps.Notifications != nil {
		mux.HandleFunc(tasks.TypeNotifyWatchers, instrument(deps.Metrics, tasks.TypeNotifyWatchers, HandleNotifyWatchers(deps)))
		mux.HandleFunc(tasks.TypeSendEmail, instrument(deps.Metrics, tasks.TypeSendEmail, HandleSendEmail(deps)))
	}
	if deps.Overdue != nil {
		mux.HandleFunc(tasks.TypeOverdueSweep, instrument(deps.Metrics, tasks.TypeOverdueSweep, HandleOverdueSweep(deps)))
	}
}

func instrument(m *metrics.Metrics, taskType string, h asynq.HandlerFunc) asynq.HandlerFunc {
	if m == nil {
		return h
	}
	return func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		err := h(ctx, t)
		m.TaskProcessed(taskType, time.Since(start), err)
		return err
	}
}

// HandleClassifyIssue runs the classifier against a stored issue and saves
// the suggestion when it clears the confidence threshold.
func HandleClassifyIssue(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p tasks.ClassifyIssuePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("unmarshal classify payload: %v: %w", err, asynq.SkipRetry)
		}
		log.WithField("issue_id", p.IssueID).Debug("processing classification task")
		return deps.Classification.SuggestForIssue(ctx, p.IssueID)
	}
}

// HandleNotifyWatchers fans an issue event out to its watchers.
func HandleNotifyWatchers(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p tasks.NotifyWatchersPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("unmarshal notify payload: %v: %w", err, asynq.SkipRetry)
		}
		return deps.Notifications.NotifyWatchers(ctx, p.IssueID, p.ActorID, p.Action, p.Details)
	}
}

// HandleSendEmail delivers a queued notification email.
func HandleSendEmail(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p tasks.SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("unmarshal email payload: %v: %w", err, asynq.SkipRetry)
		}
		deps.Notifications.DeliverEmail(ctx, p.UserID, p.Subject, p.Body)
		return nil
	}
}

// HandleOverdueSweep notifies assignees of issues past their priority's
// age limit. Enqueued on a schedule by the worker's cron runner.
func HandleOverdueSweep(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		notified, err := deps.Overdue.Sweep(ctx)
		if err != nil {
			return err
		}
		log.WithField("notified", notified).Info("overdue sweep complete")
		return nil
	}
}
