package primary

import (
	"context"
	"fmt"
	"strings"

	"tracker/internal/models"
)

const userColumns = `id, username, email, department, email_notifications, created_at`

func scanUser(row rowScanner, dest *models.User) error {
	return row.Scan(&dest.ID, &dest.Username, &dest.Email, &dest.Department, &dest.EmailNotifications, &dest.CreatedAt)
}

func (s *StoreImpl) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, department, email_notifications)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		user.Username, user.Email, user.Department, user.EmailNotifications,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Username, mapError(err))
	}
	return nil
}

func (s *StoreImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, mapError(err))
	}
	return user, nil
}

func (s *StoreImpl) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username), user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, mapError(err))
	}
	return user, nil
}

func (s *StoreImpl) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	result := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &models.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result[user.ID] = user
	}
	return result, rows.Err()
}
