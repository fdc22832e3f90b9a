package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, tokens map[string]model.Identity) *Server {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return NewServer(storage.NewBackend(store, LocalIdentity), tokens)
}

func doRequest(t *testing.T, s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, map[string]model.Identity{"secret": {Subject: "ada"}})
	rec := doRequest(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Authentication(t *testing.T) {
	tokens := map[string]model.Identity{
		"secret": {Subject: "ada", DisplayName: "Ada", Roles: []string{model.RoleAdmin}},
	}
	s := newTestServer(t, tokens)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "missing token", token: "", status: http.StatusUnauthorized},
		{name: "unknown token", token: "guess", status: http.StatusUnauthorized},
		{name: "known token", token: "secret", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, "/api/groups", tt.token, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := doRequest(t, s, http.MethodGet, "/api/me", "secret", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.True(t, me.IsAdmin())
	assert.Equal(t, "Ada", me.DisplayName)
}

func TestServer_ViewerCannotModify(t *testing.T) {
	tokens := map[string]model.Identity{
		"admin":  {Subject: "ada", Roles: []string{model.RoleAdmin}},
		"viewer": {Subject: "bob", Roles: []string{"viewer"}},
	}
	s := newTestServer(t, tokens)

	rec := doRequest(t, s, http.MethodPost, "/api/groups", "admin", `{"name":"Food","is_active":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var group model.CategoryGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &group))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "create", method: http.MethodPost, path: "/api/groups", body: `{"name":"Rent"}`},
		{name: "update", method: http.MethodPut, path: "/api/groups/" + group.ID, body: `{"name":"Renamed"}`},
		{name: "delete", method: http.MethodDelete, path: "/api/groups/" + group.ID},
		{name: "currency", method: http.MethodPost, path: "/api/currencies", body: `{"code":"USD","name":"US Dollar","symbol":"$"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, tt.method, tt.path, "viewer", tt.body)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), "forbidden")
		})
	}

	rec = doRequest(t, s, http.MethodGet, "/api/groups", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []model.CategoryGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Food", groups[0].Name)
}

func TestServer_OpenModeUsesLocalIdentity(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/me", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, LocalIdentity.Subject, me.Subject)
}

func TestServer_ResourceLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/groups", "", `{"name":"Food","color":"#4caf50","emoji":"🍔","is_active":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var group model.CategoryGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &group))
	require.NotEmpty(t, group.ID)

	rec = doRequest(t, s, http.MethodPut, "/api/groups/"+group.ID, "", `{"name":"Food & Drink","color":"#4caf50","emoji":"🍔","is_active":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/groups", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []model.CategoryGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Food & Drink", groups[0].Name)

	rec = doRequest(t, s, http.MethodDelete, "/api/groups/"+group.ID, "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, "/api/groups/"+group.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CreateAppliesDefaults(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/groups", "", `{"name":"Food"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var group model.CategoryGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &group))
	assert.Equal(t, model.GroupColors[0], group.Color)
	assert.Equal(t, model.GroupEmojis[0], group.Emoji)
	assert.True(t, group.IsActive)

	rec = doRequest(t, s, http.MethodPost, "/api/groups", "", `{"name":"Archive","emoji":"📦","is_active":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &group))
	assert.Equal(t, "📦", group.Emoji)
	assert.False(t, group.IsActive)

	rec = doRequest(t, s, http.MethodPost, "/api/currencies", "", `{"code":"EUR","name":"Euro","symbol":"€"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var currency model.Currency
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &currency))
	assert.True(t, currency.IsActive)
	assert.False(t, currency.IsDefault)
}

func TestServer_ErrorStatuses(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/groups", "", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "group name is required")

	rec = doRequest(t, s, http.MethodPost, "/api/groups", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/currencies", "", `{"code":"usd","name":"US Dollar","symbol":"$"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, s, http.MethodPost, "/api/currencies", "", `{"code":"USD","name":"Again","symbol":"$"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(common.ErrNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(common.ErrDuplicateEntry))
	assert.Equal(t, http.StatusBadRequest, StatusFor(storage.ErrEmptyString))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(common.ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, StatusFor(common.ErrForbidden))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}
