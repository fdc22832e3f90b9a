package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/google/uuid"
)

// ListGroups returns all category groups in creation order.
func (s *SQLiteStorage) ListGroups(ctx context.Context) ([]model.CategoryGroup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, color, emoji, is_active
		FROM category_groups
		ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category groups: %w", err)
	}
	defer rows.Close()

	groups := []model.CategoryGroup{}
	for rows.Next() {
		var g model.CategoryGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Color, &g.Emoji, &g.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan category group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category groups: %w", err)
	}

	slog.Debug("retrieved category groups", "count", len(groups))
	return groups, nil
}

// GetGroup returns a single category group.
func (s *SQLiteStorage) GetGroup(ctx context.Context, id string) (model.CategoryGroup, error) {
	if err := validateContext(ctx); err != nil {
		return model.CategoryGroup{}, err
	}

	var g model.CategoryGroup
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, color, emoji, is_active
		FROM category_groups
		WHERE id = ?`, id).Scan(&g.ID, &g.Name, &g.Color, &g.Emoji, &g.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return model.CategoryGroup{}, fmt.Errorf("%w: category group %s", common.ErrNotFound, id)
	}
	if err != nil {
		return model.CategoryGroup{}, fmt.Errorf("failed to query category group: %w", err)
	}
	return g, nil
}

// CreateGroup inserts a new category group and assigns its id.
func (s *SQLiteStorage) CreateGroup(ctx context.Context, group model.CategoryGroup) (model.CategoryGroup, error) {
	if err := validateContext(ctx); err != nil {
		return model.CategoryGroup{}, err
	}
	if err := validateGroup(group); err != nil {
		return model.CategoryGroup{}, err
	}

	group.ID = uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_groups (id, name, color, emoji, is_active)
		VALUES (?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Color, group.Emoji, group.IsActive)
	if err != nil {
		return model.CategoryGroup{}, fmt.Errorf("failed to create category group: %w", err)
	}

	slog.Info("created category group", "name", group.Name, "id", group.ID)
	return group, nil
}

// UpdateGroup replaces every editable field of a category group.
func (s *SQLiteStorage) UpdateGroup(ctx context.Context, id string, group model.CategoryGroup) (model.CategoryGroup, error) {
	if err := validateContext(ctx); err != nil {
		return model.CategoryGroup{}, err
	}
	if err := validateString(id, "id"); err != nil {
		return model.CategoryGroup{}, err
	}
	if err := validateGroup(group); err != nil {
		return model.CategoryGroup{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE category_groups
		SET name = ?, color = ?, emoji = ?, is_active = ?
		WHERE id = ?`,
		group.Name, group.Color, group.Emoji, group.IsActive, id)
	if err != nil {
		return model.CategoryGroup{}, fmt.Errorf("failed to update category group: %w", err)
	}
	if err := requireAffected(result, "category group", id); err != nil {
		return model.CategoryGroup{}, err
	}

	group.ID = id
	slog.Info("updated category group", "id", id)
	return group, nil
}

// DeleteGroup removes a category group. Categories keep their group_id.
func (s *SQLiteStorage) DeleteGroup(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM category_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category group: %w", err)
	}
	if err := requireAffected(result, "category group", id); err != nil {
		return err
	}

	slog.Info("deleted category group", "id", id)
	return nil
}
