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

// ListCategories returns all categories in creation order, embedding the
// snapshot of each category's group when the group still exists.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT c.id, c.name, c.group_id, c.description,
			g.id, g.name, g.color, g.emoji, g.is_active
		FROM categories c
		LEFT JOIN category_groups g ON g.id = c.group_id
		ORDER BY c.rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var (
			cat                                   model.Category
			groupID                               sql.NullString
			snapID, snapName, snapColor, snapEmoj sql.NullString
			snapActive                            sql.NullBool
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &groupID, &cat.Description,
			&snapID, &snapName, &snapColor, &snapEmoj, &snapActive); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if groupID.Valid {
			cat.GroupID = model.StringPtr(groupID.String)
		}
		if snapID.Valid {
			cat.Group = &model.CategoryGroup{
				ID:       snapID.String,
				Name:     snapName.String,
				Color:    snapColor.String,
				Emoji:    snapEmoj.String,
				IsActive: snapActive.Bool,
			}
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// CreateCategory inserts a new category. A group reference must exist.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category model.Category) (model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return model.Category{}, err
	}
	if err := validateCategory(category); err != nil {
		return model.Category{}, err
	}

	category.ID = uuid.New().String()
	category.Group = nil
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkGroupExists(ctx, tx, category.GroupID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, group_id, description)
			VALUES (?, ?, ?, ?)`,
			category.ID, category.Name, nullable(category.GroupID), category.Description)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}

	slog.Info("created category", "name", category.Name, "id", category.ID)
	return category, nil
}

// UpdateCategory replaces every editable field of a category.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id string, category model.Category) (model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return model.Category{}, err
	}
	if err := validateString(id, "id"); err != nil {
		return model.Category{}, err
	}
	if err := validateCategory(category); err != nil {
		return model.Category{}, err
	}

	category.ID = id
	category.Group = nil
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkGroupExists(ctx, tx, category.GroupID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE categories
			SET name = ?, group_id = ?, description = ?
			WHERE id = ?`,
			category.Name, nullable(category.GroupID), category.Description, id)
		if err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		return requireAffected(result, "category", id)
	})
	if err != nil {
		return model.Category{}, err
	}

	slog.Info("updated category", "id", id)
	return category, nil
}

// DeleteCategory removes a category.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if err := requireAffected(result, "category", id); err != nil {
		return err
	}

	slog.Info("deleted category", "id", id)
	return nil
}

func checkGroupExists(ctx context.Context, tx *sql.Tx, groupID *string) error {
	if groupID == nil || *groupID == "" {
		return nil
	}

	var found int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM category_groups WHERE id = ?`, *groupID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: category group %s does not exist", common.ErrInvalidInput, *groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check category group: %w", err)
	}
	return nil
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
