// Package storage provides the data persistence layer for the spice console.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateGroup validates a category group before it is written.
func validateGroup(group model.CategoryGroup) error {
	if strings.TrimSpace(group.Name) == "" {
		return fmt.Errorf("%w: group name is required", common.ErrInvalidInput)
	}
	return nil
}

// validateCategory validates a category before it is written.
func validateCategory(category model.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: category name is required", common.ErrInvalidInput)
	}
	return nil
}

// normalizeCurrencyCode upper-cases and trims a currency code.
func normalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// validateCurrency validates a currency. The code is only checked on create.
func validateCurrency(currency model.Currency, checkCode bool) error {
	if checkCode && utf8.RuneCountInString(currency.Code) != model.CurrencyCodeLength {
		return fmt.Errorf("%w: currency code must be %d characters", common.ErrInvalidInput, model.CurrencyCodeLength)
	}
	if strings.TrimSpace(currency.Name) == "" {
		return fmt.Errorf("%w: currency name is required", common.ErrInvalidInput)
	}
	n := utf8.RuneCountInString(currency.Symbol)
	if n < 1 || n > model.CurrencySymbolMaxLength {
		return fmt.Errorf("%w: currency symbol must be 1-%d characters", common.ErrInvalidInput, model.CurrencySymbolMaxLength)
	}
	return nil
}
