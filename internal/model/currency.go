package model

import "time"

// Currency code and symbol limits.
const (
	CurrencyCodeLength      = 3
	CurrencySymbolMaxLength = 10
)

// Currency is an entry in the currency registry.
type Currency struct {
	// CreatedAt is assigned by the collaborator and never sent on writes.
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	// Code is immutable once the currency exists.
	Code      string `json:"code,omitempty"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	IsActive  bool   `json:"is_active"`
	IsDefault bool   `json:"is_default"`
}
