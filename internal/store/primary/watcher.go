package primary

import (
	"context"
	"fmt"
)

func (s *StoreImpl) AddWatcher(ctx context.Context, issueID, userID int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO issue_watchers (issue_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, issueID, userID)
	if err != nil {
		return fmt.Errorf("failed to add watcher %d to issue %d: %w", userID, issueID, mapError(err))
	}
	return nil
}

func (s *StoreImpl) RemoveWatcher(ctx context.Context, issueID, userID int64) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM issue_watchers WHERE issue_id = $1 AND user_id = $2`, issueID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove watcher %d from issue %d: %w", userID, issueID, err)
	}
	return nil
}

func (s *StoreImpl) ListWatchers(ctx context.Context, issueID int64) ([]int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id FROM issue_watchers WHERE issue_id = $1 ORDER BY user_id`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchers for issue %d: %w", issueID, err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watcher row: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}
