package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/todo.space/internal/platform/errors"
	"github.com/louisbranch/todo.space/internal/services/todo/item"
	"github.com/louisbranch/todo.space/internal/services/todo/storage"
)

const itemColumns = `id, title, description, completed, user_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ListItems returns userID's items ordered by creation time, then id.
func (s *Store) ListItems(ctx context.Context, userID string) ([]item.Item, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM todos WHERE user_id = ? ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]item.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// CreateItem inserts it and re-reads the stored row in one transaction.
func (s *Store) CreateItem(ctx context.Context, it item.Item) (item.Item, error) {
	if err := s.ready(ctx); err != nil {
		return item.Item{}, err
	}
	if strings.TrimSpace(it.ID) == "" {
		return item.Item{}, fmt.Errorf("item id is required")
	}
	if strings.TrimSpace(it.UserID) == "" {
		return item.Item{}, fmt.Errorf("user id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return item.Item{}, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO todos (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.ID,
		it.Title,
		nullString(it.Description),
		boolToInt(it.Completed),
		it.UserID,
		toMillis(it.CreatedAt),
		toMillis(it.UpdatedAt),
	); err != nil {
		return item.Item{}, fmt.Errorf("insert item: %w", err)
	}

	stored, err := getOwnedItem(ctx, tx, it.UserID, it.ID)
	if err != nil {
		return item.Item{}, reloadError(err)
	}
	if err := tx.Commit(); err != nil {
		return item.Item{}, fmt.Errorf("commit item: %w", err)
	}
	return stored, nil
}

// UpdateItem merges patch into an owned item in one transaction.
func (s *Store) UpdateItem(ctx context.Context, userID string, itemID string, patch item.Patch, now time.Time) (item.Item, error) {
	if err := s.ready(ctx); err != nil {
		return item.Item{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return item.Item{}, fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(itemID) == "" {
		return item.Item{}, storage.ErrNotFound
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return item.Item{}, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, err := getOwnedItem(ctx, tx, userID, itemID)
	if err != nil {
		return item.Item{}, err
	}
	merged := existing.Apply(patch, now)

	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		merged.Title,
		nullString(merged.Description),
		boolToInt(merged.Completed),
		toMillis(merged.UpdatedAt),
		itemID,
		userID,
	); err != nil {
		return item.Item{}, fmt.Errorf("update item: %w", err)
	}

	stored, err := getOwnedItem(ctx, tx, userID, itemID)
	if err != nil {
		return item.Item{}, reloadError(err)
	}
	if err := tx.Commit(); err != nil {
		return item.Item{}, fmt.Errorf("commit item: %w", err)
	}
	return stored, nil
}

// DeleteItem removes an owned item. A missing or foreign item is ErrNotFound.
func (s *Store) DeleteItem(ctx context.Context, userID string, itemID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(itemID) == "" {
		return storage.ErrNotFound
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func getOwnedItem(ctx context.Context, q queryRower, userID string, itemID string) (item.Item, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM todos WHERE id = ? AND user_id = ?`,
		itemID,
		userID,
	)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return item.Item{}, storage.ErrNotFound
	}
	if err != nil {
		return item.Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func scanItem(row rowScanner) (item.Item, error) {
	var (
		it          item.Item
		description sql.NullString
		completed   int64
		createdAt   int64
		updatedAt   int64
	)
	if err := row.Scan(&it.ID, &it.Title, &description, &completed, &it.UserID, &createdAt, &updatedAt); err != nil {
		return item.Item{}, err
	}
	if description.Valid {
		value := description.String
		it.Description = &value
	}
	it.Completed = completed != 0
	it.CreatedAt = fromMillis(createdAt)
	it.UpdatedAt = fromMillis(updatedAt)
	return it, nil
}

// reloadError reports a row that vanished between write and read.
func reloadError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeInconsistent, "reload item after write", err)
	}
	return err
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
