// Package config loads spice-admin settings from viper and validates them.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// memoryDatabase is the SQLite name for a private in-memory database.
const memoryDatabase = ":memory:"

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR references. The SQLite in-memory name passes through untouched.
func ExpandPath(path string) string {
	if path == "" || path == memoryDatabase {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}
