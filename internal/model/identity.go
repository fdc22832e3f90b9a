package model

import "slices"

// RoleAdmin unlocks the admin sections of the console.
const RoleAdmin = "admin"

// Identity is the answer to "who am I".
type Identity struct {
	Subject     string   `json:"subject"`
	DisplayName string   `json:"name"`
	Roles       []string `json:"roles"`
}

// HasRole reports whether the identity carries role.
func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// IsAdmin reports whether the identity may see admin-only sections.
func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}
