package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/google/uuid"
)

const currencyColumns = `id, code, name, symbol, is_active, is_default, created_at`

// ListCurrencies returns all currencies in creation order.
func (s *SQLiteStorage) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies := []model.Currency{}
	for rows.Next() {
		var c model.Currency
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Symbol, &c.IsActive, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}

	slog.Debug("retrieved currencies", "count", len(currencies))
	return currencies, nil
}

// CreateCurrency registers a currency. The code is normalized to upper case
// and must be unique; marking it default clears the flag on every other row.
func (s *SQLiteStorage) CreateCurrency(ctx context.Context, currency model.Currency) (model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return model.Currency{}, err
	}

	currency.Code = normalizeCurrencyCode(currency.Code)
	if err := validateCurrency(currency, true); err != nil {
		return model.Currency{}, err
	}

	currency.ID = uuid.New().String()
	currency.CreatedAt = time.Now().UTC().Truncate(time.Second)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if currency.IsDefault {
			if err := clearDefault(ctx, tx); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO currencies (`+currencyColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			currency.ID, currency.Code, currency.Name, currency.Symbol,
			currency.IsActive, currency.IsDefault, currency.CreatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: currency code %s", common.ErrDuplicateEntry, currency.Code)
		}
		if err != nil {
			return fmt.Errorf("failed to create currency: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Currency{}, err
	}

	slog.Info("created currency", "code", currency.Code, "id", currency.ID)
	return currency, nil
}

// UpdateCurrency replaces the editable fields of a currency. The code and
// creation time are never changed; whatever the caller sent is ignored.
func (s *SQLiteStorage) UpdateCurrency(ctx context.Context, id string, currency model.Currency) (model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return model.Currency{}, err
	}
	if err := validateString(id, "id"); err != nil {
		return model.Currency{}, err
	}
	if err := validateCurrency(currency, false); err != nil {
		return model.Currency{}, err
	}

	var updated model.Currency
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if currency.IsDefault {
			if err := clearDefault(ctx, tx); err != nil {
				return err
			}
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE currencies
			SET name = ?, symbol = ?, is_active = ?, is_default = ?
			WHERE id = ?`,
			currency.Name, currency.Symbol, currency.IsActive, currency.IsDefault, id)
		if err != nil {
			return fmt.Errorf("failed to update currency: %w", err)
		}
		if err := requireAffected(result, "currency", id); err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE id = ?`, id)
		if err := row.Scan(&updated.ID, &updated.Code, &updated.Name, &updated.Symbol,
			&updated.IsActive, &updated.IsDefault, &updated.CreatedAt); err != nil {
			return fmt.Errorf("failed to reload currency: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Currency{}, err
	}

	slog.Info("updated currency", "id", id, "code", updated.Code)
	return updated, nil
}

// DeleteCurrency removes a currency.
func (s *SQLiteStorage) DeleteCurrency(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM currencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete currency: %w", err)
	}
	if err := requireAffected(result, "currency", id); err != nil {
		return err
	}

	slog.Info("deleted currency", "id", id)
	return nil
}

// GetCurrencyByCode looks a currency up by its normalized code.
func (s *SQLiteStorage) GetCurrencyByCode(ctx context.Context, code string) (model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return model.Currency{}, err
	}

	code = normalizeCurrencyCode(code)
	var c model.Currency
	err := s.db.QueryRowContext(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE code = ?`, code).
		Scan(&c.ID, &c.Code, &c.Name, &c.Symbol, &c.IsActive, &c.IsDefault, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Currency{}, fmt.Errorf("%w: currency %s", common.ErrNotFound, code)
	}
	if err != nil {
		return model.Currency{}, fmt.Errorf("failed to query currency: %w", err)
	}
	return c, nil
}

func clearDefault(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE currencies SET is_default = 0 WHERE is_default = 1`); err != nil {
		return fmt.Errorf("failed to clear default currency: %w", err)
	}
	return nil
}
