package primary

import (
	"context"
	"fmt"

	"tracker/internal/models"
)

func (s *StoreImpl) RecordActivity(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_log (issue_id, user_id, action, details, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp`

	err := s.db.QueryRow(ctx, query,
		entry.IssueID, entry.UserID, entry.Action, entry.Details, entry.OldValue, entry.NewValue,
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record activity on issue %d: %w", entry.IssueID, mapError(err))
	}
	return nil
}

func (s *StoreImpl) ListActivity(ctx context.Context, issueID int64, limit int) ([]*models.ActivityLog, error) {
	query := `
		SELECT id, issue_id, user_id, action, details, old_value, new_value, timestamp
		FROM activity_log
		WHERE issue_id = $1
		ORDER BY timestamp DESC`
	args := []interface{}{issueID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity for issue %d: %w", issueID, err)
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		e := &models.ActivityLog{}
		if err := rows.Scan(&e.ID, &e.IssueID, &e.UserID, &e.Action, &e.Details, &e.OldValue, &e.NewValue, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
