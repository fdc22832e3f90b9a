package model

// CategoryGroup is the top tier of the payment taxonomy.
type CategoryGroup struct {
	ID       string `json:"id" yaml:"id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Color    string `json:"color" yaml:"color"`
	Emoji    string `json:"emoji" yaml:"emoji"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

// Label renders the group the way tables and selectors show it.
func (g CategoryGroup) Label() string {
	if g.Emoji == "" {
		return g.Name
	}
	return g.Emoji + " " + g.Name
}

// Category belongs to at most one CategoryGroup.
type Category struct {
	// GroupID is nil for ungrouped categories.
	GroupID *string `json:"group_id"`
	// Group is the snapshot some collaborators embed on list responses.
	Group       *CategoryGroup `json:"group,omitempty"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
}

// HasGroup reports whether the category references a group.
func (c Category) HasGroup() bool {
	return c.GroupID != nil && *c.GroupID != ""
}

// GroupRef returns the referenced group id or "" when ungrouped.
func (c Category) GroupRef() string {
	if c.GroupID == nil {
		return ""
	}
	return *c.GroupID
}

// StringPtr returns a pointer to s, or nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
