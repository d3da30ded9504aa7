package worker_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/services"
	"tracker/internal/tasks"
	"tracker/internal/worker"
	"tracker/pkg/classifier"
)

func TestRegisterHandlers(t *testing.T) {
	mux := asynq.NewServeMux()

	deps := worker.Deps{
		Classification: services.NewClassificationService(classifier.NewRuleClassifier(), nil, 0.4, nil),
		Notifications:  services.NewNotificationService(nil, nil, nil, nil, nil),
		Overdue:        services.NewOverdueService(nil, nil),
	}
	worker.RegisterHandlers(mux, deps)

	for _, taskType := range []string{
		tasks.TypeClassifyIssue,
		tasks.TypeNotifyWatchers,
		tasks.TypeSendEmail,
		tasks.TypeOverdueSweep,
	} {
		h, pattern := mux.Handler(asynq.NewTask(taskType, nil))
		assert.NotNil(t, h, taskType)
		assert.Equal(t, taskType, pattern)
	}
}

func TestRegisterHandlersSkipsMissingServices(t *testing.T) {
	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, worker.Deps{})

	_, pattern := mux.Handler(asynq.NewTask(tasks.TypeClassifyIssue, nil))
	assert.Empty(t, pattern)
}

func TestHandleClassifyIssueRejectsBadPayload(t *testing.T) {
	deps := worker.Deps{
		Classification: services.NewClassificationService(classifier.NewRuleClassifier(), nil, 0.4, nil),
	}
	handler := worker.HandleClassifyIssue(deps)

	err := handler(context.Background(), asynq.NewTask(tasks.TypeClassifyIssue, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleNotifyWatchersRejectsBadPayload(t *testing.T) {
	deps := worker.Deps{
		Notifications: services.NewNotificationService(nil, nil, nil, nil, nil),
	}
	handler := worker.HandleNotifyWatchers(deps)

	err := handler(context.Background(), asynq.NewTask(tasks.TypeNotifyWatchers, []byte("[]")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestClassifyIssueTaskRoundTrip(t *testing.T) {
	task, err := tasks.NewClassifyIssueTask(42)
	require.NoError(t, err)
	assert.Equal(t, tasks.TypeClassifyIssue, task.Type())

	var p tasks.ClassifyIssuePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, int64(42), p.IssueID)
}
