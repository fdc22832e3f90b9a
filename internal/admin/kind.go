package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/service"
)

// Field names shared by the entity kinds.
const (
	FieldName        = "name"
	FieldColor       = "color"
	FieldEmoji       = "emoji"
	FieldActive      = "is_active"
	FieldGroup       = "group_id"
	FieldDescription = "description"
	FieldCode        = "code"
	FieldSymbol      = "symbol"
	FieldDefault     = "is_default"
)

// FieldType selects how the view edits a field.
type FieldType int

// Field types.
const (
	FieldText FieldType = iota
	FieldToggle
	FieldChoice
)

// Field describes one editable field of a kind.
type Field struct {
	// Options lists the choices of a FieldChoice field. It is called on every
	// render so selectors follow the live collections.
	Options         func() []Option
	Name            string
	Label           string
	Type            FieldType
	MaxRunes        int
	Upper           bool
	Required        bool
	ImmutableOnEdit bool
}

// Normalize applies the input-layer constraints of f to value.
func (f Field) Normalize(value string) string {
	if f.Upper {
		value = strings.ToUpper(value)
	}
	if f.MaxRunes > 0 && utf8.RuneCountInString(value) > f.MaxRunes {
		value = string([]rune(value)[:f.MaxRunes])
	}
	return value
}

// FieldState is a field with its current draft value.
type FieldState struct {
	Field
	Value    string
	Disabled bool
}

// Kind describes one entity kind to the generic form controller.
type Kind[T any] struct {
	Collection func() service.Collection[T]
	Defaults   func() T
	Clone      func(T) T
	Seed       func(T) T
	ID         func(T) string
	Label      func(T) string
	Get        func(T, string) string
	Set        func(*T, string, string) error
	Validate   func(T, Mode) error
	Reload     func(context.Context) error
	Tag        EntityKind
	Fields     []Field
}

func (k Kind[T]) field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// seed prepares an edit draft from a copy of the record.
func (k Kind[T]) seed(v T) T {
	v = k.clone(v)
	if k.Seed == nil {
		return v
	}
	return k.Seed(v)
}

func (k Kind[T]) clone(v T) T {
	if k.Clone == nil {
		return v
	}
	return k.Clone(v)
}

// GroupKind describes category groups.
func GroupKind(c *Coordinator) Kind[model.CategoryGroup] {
	return Kind[model.CategoryGroup]{
		Tag: KindGroup,
		Fields: []Field{
			{Name: FieldName, Label: "Name", Type: FieldText, Required: true},
			{Name: FieldColor, Label: "Color", Type: FieldChoice, Options: presetOptions(model.GroupColors)},
			{Name: FieldEmoji, Label: "Emoji", Type: FieldChoice, Options: presetOptions(model.GroupEmojis)},
			{Name: FieldActive, Label: "Active", Type: FieldToggle},
		},
		Collection: func() service.Collection[model.CategoryGroup] { return c.source.Groups() },
		Defaults:   model.DefaultGroup,
		ID:         func(g model.CategoryGroup) string { return g.ID },
		Label:      func(g model.CategoryGroup) string { return g.Label() },
		Get: func(g model.CategoryGroup, name string) string {
			switch name {
			case FieldName:
				return g.Name
			case FieldColor:
				return g.Color
			case FieldEmoji:
				return g.Emoji
			case FieldActive:
				return strconv.FormatBool(g.IsActive)
			}
			return ""
		},
		Set: func(g *model.CategoryGroup, name, value string) error {
			switch name {
			case FieldName:
				g.Name = value
			case FieldColor:
				g.Color = value
			case FieldEmoji:
				g.Emoji = value
			case FieldActive:
				return setBool(&g.IsActive, name, value)
			}
			return nil
		},
		Validate: func(g model.CategoryGroup, _ Mode) error {
			return requireText(FieldName, g.Name)
		},
		Reload: c.LoadGroups,
	}
}

// CategoryKind describes categories. The group selector reads the
// coordinator's current groups.
func CategoryKind(c *Coordinator) Kind[model.Category] {
	return Kind[model.Category]{
		Tag: KindCategory,
		Fields: []Field{
			{Name: FieldName, Label: "Name", Type: FieldText, Required: true},
			{Name: FieldGroup, Label: "Group", Type: FieldChoice, Options: c.GroupOptions},
			{Name: FieldDescription, Label: "Description", Type: FieldText},
		},
		Collection: func() service.Collection[model.Category] { return c.source.Categories() },
		Defaults:   func() model.Category { return model.Category{} },
		Clone:      cloneCategory,
		Seed:       c.dropMissingGroup,
		ID:         func(cat model.Category) string { return cat.ID },
		Label:      func(cat model.Category) string { return cat.Name },
		Get: func(cat model.Category, name string) string {
			switch name {
			case FieldName:
				return cat.Name
			case FieldGroup:
				return cat.GroupRef()
			case FieldDescription:
				return cat.Description
			}
			return ""
		},
		Set: func(cat *model.Category, name, value string) error {
			switch name {
			case FieldName:
				cat.Name = value
			case FieldGroup:
				if value != cat.GroupRef() {
					cat.Group = nil
				}
				cat.GroupID = model.StringPtr(value)
			case FieldDescription:
				cat.Description = value
			}
			return nil
		},
		Validate: func(cat model.Category, _ Mode) error {
			return requireText(FieldName, cat.Name)
		},
		Reload: c.LoadCategories,
	}
}

// CurrencyKind describes currencies. The code is upper-cased and cut to
// three characters as it is typed, and cannot change once the currency
// exists.
func CurrencyKind(c *Coordinator) Kind[model.Currency] {
	return Kind[model.Currency]{
		Tag: KindCurrency,
		Fields: []Field{
			{Name: FieldCode, Label: "Code", Type: FieldText, Required: true, Upper: true, MaxRunes: model.CurrencyCodeLength, ImmutableOnEdit: true},
			{Name: FieldName, Label: "Name", Type: FieldText, Required: true},
			{Name: FieldSymbol, Label: "Symbol", Type: FieldText, Required: true, MaxRunes: model.CurrencySymbolMaxLength},
			{Name: FieldActive, Label: "Active", Type: FieldToggle},
			{Name: FieldDefault, Label: "Default", Type: FieldToggle},
		},
		Collection: func() service.Collection[model.Currency] { return c.source.Currencies() },
		Defaults:   model.DefaultCurrency,
		ID:         func(cur model.Currency) string { return cur.ID },
		Label:      func(cur model.Currency) string { return cur.Code + " " + cur.Name },
		Get: func(cur model.Currency, name string) string {
			switch name {
			case FieldCode:
				return cur.Code
			case FieldName:
				return cur.Name
			case FieldSymbol:
				return cur.Symbol
			case FieldActive:
				return strconv.FormatBool(cur.IsActive)
			case FieldDefault:
				return strconv.FormatBool(cur.IsDefault)
			}
			return ""
		},
		Set: func(cur *model.Currency, name, value string) error {
			switch name {
			case FieldCode:
				cur.Code = value
			case FieldName:
				cur.Name = value
			case FieldSymbol:
				cur.Symbol = value
			case FieldActive:
				return setBool(&cur.IsActive, name, value)
			case FieldDefault:
				return setBool(&cur.IsDefault, name, value)
			}
			return nil
		},
		Validate: func(cur model.Currency, mode Mode) error {
			if mode == ModeCreate && utf8.RuneCountInString(cur.Code) != model.CurrencyCodeLength {
				return &ValidationError{Field: FieldCode, Reason: fmt.Sprintf("must be %d characters", model.CurrencyCodeLength)}
			}
			if err := requireText(FieldName, cur.Name); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(cur.Symbol); n < 1 || n > model.CurrencySymbolMaxLength {
				return &ValidationError{Field: FieldSymbol, Reason: fmt.Sprintf("must be 1-%d characters", model.CurrencySymbolMaxLength)}
			}
			return nil
		},
		Reload: c.LoadCurrencies,
	}
}

// CycleOption returns the option delta steps away from current, wrapping.
// An unknown current value starts from the first option.
func CycleOption(options []Option, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := 0
	found := false
	for i, o := range options {
		if o.Value == current {
			idx = i
			found = true
			break
		}
	}
	if !found {
		return options[0].Value
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n].Value
}

// OptionLabel returns the label of value among options, or value itself.
func OptionLabel(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func presetOptions(values []string) func() []Option {
	return func() []Option {
		options := make([]Option, len(values))
		for i, v := range values {
			options[i] = Option{Value: v, Label: v}
		}
		return options
	}
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func setBool(dst *bool, field, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return &ValidationError{Field: field, Reason: "must be true or false"}
	}
	*dst = b
	return nil
}
