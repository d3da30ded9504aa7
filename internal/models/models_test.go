package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/pkg/classifier"
)

func TestTimeToResolve(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	resolved := created.Add(26 * time.Hour)

	issue := &Issue{CreatedAt: created, ResolvedAt: &resolved}
	got := issue.TimeToResolve()
	require.NotNil(t, got)
	assert.Equal(t, 26.0, *got)

	assert.Nil(t, (&Issue{CreatedAt: created}).TimeToResolve())
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   Status
		priority classifier.Priority
		age      time.Duration
		want     bool
	}{
		{"critical past 24h", StatusOpen, classifier.PriorityCritical, 25 * time.Hour, true},
		{"critical within 24h", StatusOpen, classifier.PriorityCritical, 23 * time.Hour, false},
		{"high past 72h", StatusInProgress, classifier.PriorityHigh, 80 * time.Hour, true},
		{"medium within a week", StatusOpen, classifier.PriorityMedium, 100 * time.Hour, false},
		{"low past two weeks", StatusOpen, classifier.PriorityLow, 340 * time.Hour, true},
		{"resolved never overdue", StatusResolved, classifier.PriorityCritical, 500 * time.Hour, false},
		{"closed never overdue", StatusClosed, classifier.PriorityCritical, 500 * time.Hour, false},
		{"unknown priority uses medium limit", StatusOpen, classifier.Priority("urgent"), 200 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &Issue{
				Status:    tt.status,
				Priority:  tt.priority,
				CreatedAt: now.Add(-tt.age),
			}
			assert.Equal(t, tt.want, issue.IsOverdue(now))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusOpen, StatusInProgress, StatusOnHold, StatusResolved, StatusClosed, StatusReopened} {
		assert.True(t, ValidStatus(s), string(s))
	}
	assert.False(t, ValidStatus(Status("done")))
	assert.False(t, ValidStatus(Status("")))
}
