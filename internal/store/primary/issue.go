package primary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tracker/internal/models"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

const issueColumns = `id, title, description, status, priority, category,
	ai_suggested_category, ai_confidence, ai_suggested_priority,
	reporter_id, assignee_id, duplicate_of_id,
	created_at, updated_at, resolved_at, closed_at,
	views_count, upvotes, estimated_hours, actual_hours`

// scanIssue scans a row selected with issueColumns into a models.Issue.
func scanIssue(row rowScanner, dest *models.Issue) error {
	return row.Scan(
		&dest.ID,
		&dest.Title,
		&dest.Description,
		&dest.Status,
		&dest.Priority,
		&dest.Category,
		&dest.AISuggestedCategory,
		&dest.AIConfidence,
		&dest.AISuggestedPriority,
		&dest.ReporterID,
		&dest.AssigneeID,
		&dest.DuplicateOfID,
		&dest.CreatedAt,
		&dest.UpdatedAt,
		&dest.ResolvedAt,
		&dest.ClosedAt,
		&dest.ViewsCount,
		&dest.Upvotes,
		&dest.EstimatedHours,
		&dest.ActualHours,
	)
}

// applyStatusTimestamps keeps resolved_at/closed_at in step with the status,
// stamping on entry to the state and clearing when the issue leaves it.
func applyStatusTimestamps(issue *models.Issue, now time.Time) {
	if issue.Status == models.StatusResolved {
		if issue.ResolvedAt == nil {
			issue.ResolvedAt = &now
		}
	} else {
		issue.ResolvedAt = nil
	}
	if issue.Status == models.StatusClosed {
		if issue.ClosedAt == nil {
			issue.ClosedAt = &now
		}
	} else {
		issue.ClosedAt = nil
	}
}

func (s *StoreImpl) CreateIssue(ctx context.Context, issue *models.Issue) error {
	if issue.Status == "" {
		issue.Status = models.StatusOpen
	}
	applyStatusTimestamps(issue, time.Now().UTC())

	query := `
		INSERT INTO issues (title, description, status, priority, category,
			reporter_id, assignee_id, duplicate_of_id, resolved_at, closed_at,
			estimated_hours, actual_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		issue.Title, issue.Description, issue.Status, issue.Priority, issue.Category,
		issue.ReporterID, issue.AssigneeID, issue.DuplicateOfID, issue.ResolvedAt, issue.ClosedAt,
		issue.EstimatedHours, issue.ActualHours,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", mapError(err))
	}
	return nil
}

func (s *StoreImpl) GetIssue(ctx context.Context, id int64) (*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`

	issue := &models.Issue{}
	if err := scanIssue(s.db.QueryRow(ctx, query, id), issue); err != nil {
		return nil, fmt.Errorf("failed to get issue %d: %w", id, mapError(err))
	}
	return issue, nil
}

func (s *StoreImpl) UpdateIssue(ctx context.Context, issue *models.Issue) error {
	applyStatusTimestamps(issue, time.Now().UTC())

	query := `
		UPDATE issues
		SET title = $2, description = $3, status = $4, priority = $5, category = $6,
			assignee_id = $7, duplicate_of_id = $8, resolved_at = $9, closed_at = $10,
			estimated_hours = $11, actual_hours = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := s.db.QueryRow(ctx, query,
		issue.ID, issue.Title, issue.Description, issue.Status, issue.Priority, issue.Category,
		issue.AssigneeID, issue.DuplicateOfID, issue.ResolvedAt, issue.ClosedAt,
		issue.EstimatedHours, issue.ActualHours,
	).Scan(&issue.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update issue %d: %w", issue.ID, mapError(err))
	}
	return nil
}

func (s *StoreImpl) DeleteIssue(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue %d: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) ListIssues(ctx context.Context, params store.ListIssuesParams) ([]*models.Issue, error) {
	var whereClauses []string
	args := []interface{}{}
	argID := 1

	if len(params.Statuses) > 0 {
		placeholders := make([]string, len(params.Statuses))
		for i, st := range params.Statuses {
			placeholders[i] = fmt.Sprintf("$%d", argID)
			args = append(args, st)
			argID++
		}
		whereClauses = append(whereClauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if params.Priority != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("priority = $%d", argID))
		args = append(args, params.Priority)
		argID++
	}
	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argID))
		args = append(args, params.Category)
		argID++
	}
	if params.ReporterID != 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("reporter_id = $%d", argID))
		args = append(args, params.ReporterID)
		argID++
	}
	if params.AssigneeID != 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("assignee_id = $%d", argID))
		args = append(args, params.AssigneeID)
		argID++
	}

	query := `SELECT ` + issueColumns + ` FROM issues`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	sortBy := "created_at"
	switch params.SortBy {
	case "updated_at", "priority", "status", "views_count", "upvotes":
		sortBy = params.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, sortOrder)

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, params.Limit)
		argID++
	}
	if params.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, params.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []*models.Issue
	for rows.Next() {
		issue := &models.Issue{}
		if err := scanIssue(rows, issue); err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

func (s *StoreImpl) SetAISuggestion(ctx context.Context, issueID int64, category classifier.Category, confidence float64, priority classifier.Priority) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE issues
		SET ai_suggested_category = $2, ai_confidence = $3, ai_suggested_priority = $4
		WHERE id = $1`,
		issueID, category, confidence, priority)
	if err != nil {
		return fmt.Errorf("failed to store AI suggestion for issue %d: %w", issueID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) IncrementViews(ctx context.Context, issueID int64) error {
	_, err := s.db.Exec(ctx, `UPDATE issues SET views_count = views_count + 1 WHERE id = $1`, issueID)
	if err != nil {
		return fmt.Errorf("failed to bump views for issue %d: %w", issueID, err)
	}
	return nil
}
