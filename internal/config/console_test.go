package config

import (
	"testing"
	"time"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SPICE_TOKEN", "")
	t.Setenv("SPICE_URL", "")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.NotEmpty(t, cfg.Database)
	assert.NotContains(t, cfg.Database, "$HOME")
	assert.Equal(t, DefaultPageSize, cfg.Console.PageSize)
	assert.Equal(t, DefaultRequestTimeout, cfg.Console.RequestTimeout)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Server.Tokens)
}

func TestLoad_RemoteFromEnvironment(t *testing.T) {
	t.Setenv("SPICE_TOKEN", "env-token")
	t.Setenv("SPICE_URL", "http://example.test/")

	v := viper.New()
	v.Set("backend", "Remote")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "http://example.test", cfg.Remote.URL)
	assert.Equal(t, "env-token", cfg.Remote.Token)
}

func TestLoad_ServerTokens(t *testing.T) {
	v := viper.New()
	v.Set("server.tokens", []map[string]any{
		{"token": "MixedCaseToken", "subject": "ada", "name": "Ada", "roles": []string{"admin"}},
		{"token": "viewer", "subject": "bob", "name": "Bob"},
	})

	cfg, err := Load(v)
	require.NoError(t, err)

	require.Contains(t, cfg.Server.Tokens, "MixedCaseToken")
	assert.True(t, cfg.Server.Tokens["MixedCaseToken"].IsAdmin())
	assert.Equal(t, "Bob", cfg.Server.Tokens["viewer"].DisplayName)
	assert.False(t, cfg.Server.Tokens["viewer"].IsAdmin())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		values  map[string]any
		wantErr error
		name    string
	}{
		{
			name:    "unknown backend",
			values:  map[string]any{"backend": "carrier-pigeon"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "remote without url",
			values:  map[string]any{"backend": "remote"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "zero page size",
			values:  map[string]any{"console.page_size": 0},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "negative timeout",
			values:  map[string]any{"console.request_timeout": -time.Second},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "token without subject",
			values: map[string]any{"server.tokens": []map[string]any{
				{"token": "abc", "name": "Nobody"},
			}},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SPICE_URL", "")
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}

			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/spice")
	t.Setenv("SPICE_DIR", "/srv/spice")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/spice/db.sqlite", ExpandPath("~/db.sqlite"))
	assert.Equal(t, "/home/spice", ExpandPath("~"))
	assert.Equal(t, "/srv/spice/admin.db", ExpandPath("$SPICE_DIR/admin.db"))
	assert.Equal(t, ":memory:", ExpandPath(":memory:"))
	assert.Equal(t, "~spice/db", ExpandPath("~spice/db"))
}
