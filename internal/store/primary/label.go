package primary

import (
	"context"
	"fmt"
	"strings"

	"tracker/internal/models"
)

func (s *StoreImpl) CreateLabel(ctx context.Context, label *models.Label) error {
	if label.Color == "" {
		label.Color = models.DefaultLabelColor
	}
	query := `
		INSERT INTO labels (name, color, description, created_by_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		label.Name, label.Color, label.Description, label.CreatedByID,
	).Scan(&label.ID, &label.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create label %q: %w", label.Name, mapError(err))
	}
	return nil
}

func (s *StoreImpl) GetLabelByName(ctx context.Context, name string) (*models.Label, error) {
	label := &models.Label{}
	err := s.db.QueryRow(ctx, `
		SELECT id, name, color, description, created_by_id, created_at
		FROM labels WHERE name = $1`, name,
	).Scan(&label.ID, &label.Name, &label.Color, &label.Description, &label.CreatedByID, &label.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get label %q: %w", name, mapError(err))
	}
	return label, nil
}

func (s *StoreImpl) ListLabels(ctx context.Context) ([]*models.Label, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, color, description, created_by_id, created_at
		FROM labels ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		l := &models.Label{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.Description, &l.CreatedByID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan label row: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (s *StoreImpl) AddLabelToIssue(ctx context.Context, issueID, labelID int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO issue_labels (issue_id, label_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, issueID, labelID)
	if err != nil {
		return fmt.Errorf("failed to label issue %d: %w", issueID, mapError(err))
	}
	return nil
}

func (s *StoreImpl) RemoveLabelFromIssue(ctx context.Context, issueID, labelID int64) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM issue_labels WHERE issue_id = $1 AND label_id = $2`, issueID, labelID)
	if err != nil {
		return fmt.Errorf("failed to unlabel issue %d: %w", issueID, err)
	}
	return nil
}

func (s *StoreImpl) GetIssueLabels(ctx context.Context, issueID int64) ([]*models.Label, error) {
	rows, err := s.db.Query(ctx, `
		SELECT l.id, l.name, l.color, l.description, l.created_by_id, l.created_at
		FROM labels l
		JOIN issue_labels il ON il.label_id = l.id
		WHERE il.issue_id = $1
		ORDER BY l.name ASC`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get labels for issue %d: %w", issueID, err)
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		l := &models.Label{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.Description, &l.CreatedByID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan label row: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (s *StoreImpl) GetLabelsForIssues(ctx context.Context, issueIDs []int64) (map[int64][]*models.Label, error) {
	result := make(map[int64][]*models.Label, len(issueIDs))
	if len(issueIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(issueIDs))
	args := make([]interface{}, len(issueIDs))
	for i, id := range issueIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT il.issue_id, l.id, l.name, l.color, l.description, l.created_by_id, l.created_at
		FROM labels l
		JOIN issue_labels il ON il.label_id = l.id
		WHERE il.issue_id IN (%s)
		ORDER BY l.name ASC`, strings.Join(placeholders, ","))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get labels for issues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var issueID int64
		l := &models.Label{}
		if err := rows.Scan(&issueID, &l.ID, &l.Name, &l.Color, &l.Description, &l.CreatedByID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan label row: %w", err)
		}
		result[issueID] = append(result[issueID], l)
	}
	return result, rows.Err()
}
