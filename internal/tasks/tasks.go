package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"tracker/internal/models"
)

// Task types handled by the worker.
const (
	// TypeClassifyIssue runs the rule classifier over a freshly created
	// issue and stores the suggestion.
	TypeClassifyIssue = "issue:classify"
	// TypeNotifyWatchers fans an issue change out to its watchers.
	TypeNotifyWatchers = "notification:fanout"
	// TypeSendEmail delivers a single email notification.
	TypeSendEmail = "email:send"
	// TypeOverdueSweep notifies assignees of overdue issues.
	TypeOverdueSweep = "issue:overdue_sweep"
)

type ClassifyIssuePayload struct {
	IssueID int64 `json:"issue_id"`
}

type NotifyWatchersPayload struct {
	IssueID int64         `json:"issue_id"`
	ActorID int64         `json:"actor_id"`
	Action  models.Action `json:"action"`
	Details string        `json:"details"`
}

type SendEmailPayload struct {
	UserID  int64  `json:"user_id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewClassifyIssueTask(issueID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ClassifyIssuePayload{IssueID: issueID})
	if err != nil {
		return nil, fmt.Errorf("marshal classify payload: %w", err)
	}
	return asynq.NewTask(TypeClassifyIssue, payload), nil
}

func NewNotifyWatchersTask(issueID, actorID int64, action models.Action, details string) (*asynq.Task, error) {
	payload, err := json.Marshal(NotifyWatchersPayload{
		IssueID: issueID,
		ActorID: actorID,
		Action:  action,
		Details: details,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal notify payload: %w", err)
	}
	return asynq.NewTask(TypeNotifyWatchers, payload), nil
}

func NewSendEmailTask(userID int64, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(SendEmailPayload{UserID: userID, Subject: subject, Body: body})
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeSendEmail, payload), nil
}

func NewOverdueSweepTask() *asynq.Task {
	return asynq.NewTask(TypeOverdueSweep, nil)
}
