package store

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"tracker/internal/models"
	"tracker/internal/tasks"
)

// JobClient enqueues background work. A nil JobClient in a service means
// the work runs inline (or not at all, for best-effort fan-out).
type JobClient interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueueClassifyIssue(ctx context.Context, issueID int64) error
	EnqueueNotifyWatchers(ctx context.Context, issueID, actorID int64, action models.Action, details string) error
	EnqueueEmail(ctx context.Context, userID int64, subject, body string) error
	Close() error
}

var _ JobClient = (*AsynqJobClient)(nil)

// AsynqJobClient is the Redis-backed JobClient.
type AsynqJobClient struct {
	client *asynq.Client
}

func NewAsynqJobClient(addr, password string, db int) (*AsynqJobClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &AsynqJobClient{client: cli}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("enqueue task %s: %w", task.Type(), err)
	}
	log.WithFields(log.Fields{"type": task.Type(), "task_id": info.ID, "queue": info.Queue}).
		Debug("enqueued task")
	return info, nil
}

func (jc *AsynqJobClient) EnqueueClassifyIssue(ctx context.Context, issueID int64) error {
	task, err := tasks.NewClassifyIssueTask(issueID)
	if err != nil {
		return err
	}
	_, err = jc.Enqueue(ctx, task)
	return err
}

func (jc *AsynqJobClient) EnqueueNotifyWatchers(ctx context.Context, issueID, actorID int64, action models.Action, details string) error {
	task, err := tasks.NewNotifyWatchersTask(issueID, actorID, action, details)
	if err != nil {
		return err
	}
	_, err = jc.Enqueue(ctx, task)
	return err
}

func (jc *AsynqJobClient) EnqueueEmail(ctx context.Context, userID int64, subject, body string) error {
	task, err := tasks.NewSendEmailTask(userID, subject, body)
	if err != nil {
		return err
	}
	_, err = jc.Enqueue(ctx, task)
	return err
}
