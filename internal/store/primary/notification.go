package primary

import (
	"context"
	"errors"
	"fmt"

	"tracker/internal/models"
	"tracker/internal/store"
)

func (s *StoreImpl) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, issue_id, notification_type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		n.RecipientID, n.IssueID, n.Type, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification for user %d: %w", n.RecipientID, mapError(err))
	}
	return nil
}

func (s *StoreImpl) FindUnreadNotification(ctx context.Context, recipientID, issueID int64, typ models.NotificationType) (*models.Notification, error) {
	n := &models.Notification{}
	err := s.db.QueryRow(ctx, `
		SELECT id, recipient_id, issue_id, notification_type, message, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND issue_id = $2 AND notification_type = $3 AND is_read = FALSE
		ORDER BY created_at ASC
		LIMIT 1`, recipientID, issueID, typ,
	).Scan(&n.ID, &n.RecipientID, &n.IssueID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up unread notification: %w", mapped)
	}
	return n, nil
}

func (s *StoreImpl) ListNotifications(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, recipient_id, issue_id, notification_type, message, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`
	args := []interface{}{recipientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %d: %w", recipientID, err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.IssueID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *StoreImpl) MarkNotificationRead(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
