package primary

import (
	"context"
	"fmt"
	"time"

	"tracker/internal/models"
	"tracker/pkg/classifier"
)

func (s *StoreImpl) CountIssuesByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*) FROM issues GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status models.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *StoreImpl) CountIssuesByCategory(ctx context.Context) (map[classifier.Category]int, error) {
	rows, err := s.db.Query(ctx, `SELECT category, COUNT(*) FROM issues GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[classifier.Category]int)
	for rows.Next() {
		var category classifier.Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

func (s *StoreImpl) CountIssuesByPriority(ctx context.Context) (map[classifier.Priority]int, error) {
	rows, err := s.db.Query(ctx, `SELECT priority, COUNT(*) FROM issues GROUP BY priority`)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues by priority: %w", err)
	}
	defer rows.Close()

	counts := make(map[classifier.Priority]int)
	for rows.Next() {
		var priority classifier.Priority
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, fmt.Errorf("failed to scan priority count: %w", err)
		}
		counts[priority] = count
	}
	return counts, rows.Err()
}

func (s *StoreImpl) CountIssuesCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM issues WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent issues: %w", err)
	}
	return count, nil
}

func (s *StoreImpl) AvgResolutionHours(ctx context.Context) (*float64, error) {
	var avg *float64
	err := s.db.QueryRow(ctx, `
		SELECT AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600.0)
		FROM issues
		WHERE resolved_at IS NOT NULL`).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average resolution time: %w", err)
	}
	return avg, nil
}

func (s *StoreImpl) CountUserIssues(ctx context.Context, userID int64) (reported, assigned, resolved int, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE reporter_id = $1),
			COUNT(*) FILTER (WHERE assignee_id = $1),
			COUNT(*) FILTER (WHERE assignee_id = $1 AND status = 'resolved')
		FROM issues`, userID).Scan(&reported, &assigned, &resolved)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count issues for user %d: %w", userID, err)
	}
	return reported, assigned, resolved, nil
}
