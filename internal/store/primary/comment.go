package primary

import (
	"context"
	"fmt"

	"tracker/internal/models"
)

func (s *StoreImpl) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (issue_id, author_id, content, is_internal)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		comment.IssueID, comment.AuthorID, comment.Content, comment.IsInternal,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment on issue %d: %w", comment.IssueID, mapError(err))
	}
	return nil
}

func (s *StoreImpl) ListComments(ctx context.Context, issueID int64, includeInternal bool) ([]*models.Comment, error) {
	query := `
		SELECT id, issue_id, author_id, content, is_internal, created_at, updated_at
		FROM comments
		WHERE issue_id = $1`
	if !includeInternal {
		query += ` AND is_internal = FALSE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(ctx, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for issue %d: %w", issueID, err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.IssueID, &c.AuthorID, &c.Content, &c.IsInternal, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
