package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"tracker/internal/models"
	"tracker/internal/store"
)

// recentWindow is the lookback for the "recent issues" dashboard figure.
const recentWindow = 7 * 24 * time.Hour

// StatsService aggregates dashboard and per-user figures.
type StatsService struct {
	stats  store.StatsStore
	issues store.IssueStore
	now    func() time.Time
}

func NewStatsService(stats store.StatsStore, issues store.IssueStore) *StatsService {
	return &StatsService{stats: stats, issues: issues, now: time.Now}
}

// IssueStatistics assembles the dashboard summary. The overdue count walks
// unresolved issues and applies the per-priority age rule in Go, same as
// the list views do.
func (s *StatsService) IssueStatistics(ctx context.Context) (*store.IssueStatistics, error) {
	byStatus, err := s.stats.CountIssuesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.stats.CountIssuesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.stats.CountIssuesByPriority(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	recent, err := s.stats.CountIssuesCreatedSince(ctx, now.Add(-recentWindow))
	if err != nil {
		return nil, err
	}

	avgHours, err := s.stats.AvgResolutionHours(ctx)
	if err != nil {
		return nil, err
	}
	if avgHours != nil {
		rounded := math.Round(*avgHours*10) / 10
		avgHours = &rounded
	}

	unresolved, err := s.issues.ListIssues(ctx, store.ListIssuesParams{
		Statuses: []models.Status{models.StatusOpen, models.StatusInProgress},
	})
	if err != nil {
		return nil, fmt.Errorf("list unresolved issues for overdue count: %w", err)
	}
	overdue := 0
	for _, issue := range unresolved {
		if issue.IsOverdue(now) {
			overdue++
		}
	}

	total := 0
	for _, count := range byStatus {
		total += count
	}

	return &store.IssueStatistics{
		Total:              total,
		Open:               byStatus[models.StatusOpen],
		InProgress:         byStatus[models.StatusInProgress],
		Resolved:           byStatus[models.StatusResolved],
		Closed:             byStatus[models.StatusClosed],
		ByCategory:         byCategory,
		ByPriority:         byPriority,
		Recent:             recent,
		AvgResolutionHours: avgHours,
		OverdueCount:       overdue,
	}, nil
}

// UserStatistics reports a user's reported/assigned/resolved counts and
// resolution rate (resolved share of assigned, as a percentage).
func (s *StatsService) UserStatistics(ctx context.Context, userID int64) (*store.UserStatistics, error) {
	reported, assigned, resolved, err := s.stats.CountUserIssues(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if assigned > 0 {
		rate = math.Round(float64(resolved)/float64(assigned)*1000) / 10
	}

	return &store.UserStatistics{
		ReportedIssues: reported,
		AssignedIssues: assigned,
		ResolvedIssues: resolved,
		ResolutionRate: rate,
	}, nil
}
