// Package api exposes the taxonomy and currency collaborator over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/Veraticus/spice-console/internal/service"
	"github.com/Veraticus/spice-console/internal/storage"
)

// LocalIdentity authenticates every request when no tokens are configured.
var LocalIdentity = model.Identity{
	Subject:     "local",
	DisplayName: "Local operator",
	Roles:       []string{model.RoleAdmin},
}

type identityKey struct{}

// Server serves /api/groups, /api/categories, /api/currencies and /api/me.
type Server struct {
	backend service.Backend
	tokens  map[string]model.Identity
	mux     *http.ServeMux
}

// NewServer builds the HTTP handler tree over backend. An empty token map
// disables authentication and every caller is LocalIdentity.
func NewServer(backend service.Backend, tokens map[string]model.Identity) *Server {
	s := &Server{
		backend: backend,
		tokens:  tokens,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /api/me", s.authenticated(http.HandlerFunc(s.handleMe)))
	registerResource(s, "groups", backend.Groups(), model.DefaultGroup)
	registerResource(s, "categories", backend.Categories(), func() model.Category { return model.Category{} })
	registerResource(s, "currencies", backend.Currencies(), model.DefaultCurrency)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	slog.Debug("api request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start))
}

// ListenAndServe runs the server on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	if len(s.tokens) == 0 {
		slog.Warn("no server tokens configured; every request is treated as the local operator")
	}
	slog.Info("api listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down api server: %w", err)
		}
		return nil
	}
}

// registerResource mounts the CRUD routes for one collection. POST bodies
// are decoded over defaults() so omitted fields get the editor's defaults.
func registerResource[T any](s *Server, name string, coll service.Collection[T], defaults func() T) {
	base := "/api/" + name

	s.mux.Handle("GET "+base, s.authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		records, err := coll.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})))

	s.mux.Handle("POST "+base, s.authenticated(adminOnly(func(w http.ResponseWriter, r *http.Request) {
		record := defaults()
		if err := decodeBody(w, r, &record); err != nil {
			writeError(w, err)
			return
		}
		created, err := coll.Create(r.Context(), record)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})))

	s.mux.Handle("PUT "+base+"/{id}", s.authenticated(adminOnly(func(w http.ResponseWriter, r *http.Request) {
		var record T
		if err := decodeBody(w, r, &record); err != nil {
			writeError(w, err)
			return
		}
		updated, err := coll.Update(r.Context(), r.PathValue("id"), record)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	})))

	s.mux.Handle("DELETE "+base+"/{id}", s.authenticated(adminOnly(func(w http.ResponseWriter, r *http.Request) {
		if err := coll.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := r.Context().Value(identityKey{}).(model.Identity)
	writeJSON(w, http.StatusOK, identity)
}

// authenticated resolves the bearer token to an identity or answers 401.
func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := LocalIdentity
		if len(s.tokens) > 0 {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, fmt.Errorf("%w: missing bearer token", common.ErrUnauthorized))
				return
			}
			known, found := s.tokens[token]
			if !found {
				writeError(w, fmt.Errorf("%w: unknown token", common.ErrUnauthorized))
				return
			}
			identity = known
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, identity)))
	})
}

// adminOnly answers 403 unless the authenticated identity holds the admin
// role.
func adminOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := r.Context().Value(identityKey{}).(model.Identity)
		if !identity.IsAdmin() {
			writeError(w, fmt.Errorf("%w: %s may not modify the taxonomy", common.ErrForbidden, identity.Subject))
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", common.ErrInvalidInput, err)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

// StatusFor maps collaborator errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, storage.ErrEmptyString):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		common.LogError(err, "api request failed", nil)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
