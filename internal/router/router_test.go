package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/readyyyk/next-todos-api/internal/config"
	"github.com/readyyyk/next-todos-api/internal/handler"
	"github.com/readyyyk/next-todos-api/internal/model"
	"github.com/readyyyk/next-todos-api/internal/repository"
)

// Minimal in-memory stores so the full HTTP stack (router, JWT
// middleware, handlers) can run without MySQL.

type memUsers struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]model.User
}

func (s *memUsers) Create(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Username == u.Username {
			return model.User{}, repository.ErrUsernameExists
		}
	}
	s.seq++
	u.ID = s.seq
	u.RegisteredAt = time.Now().UTC()
	s.rows[u.ID] = u
	return u, nil
}

func (s *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.rows[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUsers) Update(_ context.Context, id uint64, patch repository.UserPatch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.ImageURL != nil {
		u.ImageURL = *patch.ImageURL
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	s.rows[id] = u
	return u, nil
}

func (s *memUsers) Delete(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

type memTodos struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]model.Todo
}

func (s *memTodos) Create(_ context.Context, t model.Todo) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.State == "" {
		t.State = model.StatePassive
	}
	s.seq++
	t.ID = s.seq
	t.CreatedAt = time.Now().UTC()
	s.rows[t.ID] = t
	return t, nil
}

func (s *memTodos) GetByID(_ context.Context, id uint64) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.rows[id]; ok {
		return t, nil
	}
	return model.Todo{}, repository.ErrNotFound
}

func (s *memTodos) ListByOwner(_ context.Context, ownerID uint64) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Todo{}
	for _, t := range s.rows {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTodos) Update(_ context.Context, id uint64, patch repository.TodoPatch) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return model.Todo{}, repository.ErrNotFound
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.State != nil {
		t.State = *patch.State
	}
	s.rows[id] = t
	return t, nil
}

func (s *memTodos) Delete(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func newTestServer() *echo.Echo {
	cfg := config.Config{
		JWTSecret:      "router-test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     bcrypt.MinCost,
	}
	users := &memUsers{rows: map[uint64]model.User{}}
	todos := &memTodos{rows: map[uint64]model.Todo{}}

	e := echo.New()
	passThrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, users))
	RegisterUsers(e, handler.NewUserHandler(cfg, users, nil), cfg.JWTSecret, passThrough)
	RegisterTodos(e, handler.NewTodoHandler(todos, users, nil), cfg.JWTSecret)
	return e
}

func request(e *echo.Echo, method, target, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// TestEndToEndFlow walks the documented scenario: register alice,
// fail a login with a wrong password, create a todo as alice, then
// try to read it as bob.
func TestEndToEndFlow(t *testing.T) {
	e := newTestServer()

	// register alice
	rec := request(e, http.MethodPost, "/users/create",
		`{"username":"alice","password":"pw123","firstname":"Alice","lastname":"Smith"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("register: status = %d: %s", rec.Code, rec.Body.String())
	}
	var reg struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("decode register: %v", err)
	}

	// wrong password fails
	rec = request(e, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"wrongpw"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status = %d, want 401", rec.Code)
	}

	// alice creates a todo; owner comes from her token
	rec = request(e, http.MethodPost, "/todos/create",
		`{"description":"buy milk"}`, reg.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("create todo: status = %d: %s", rec.Code, rec.Body.String())
	}
	var created model.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode todo: %v", err)
	}
	if created.OwnerID != reg.User.ID || created.State != model.StatePassive {
		t.Fatalf("unexpected todo: %+v", created)
	}

	// bob registers and cannot read alice's todo
	rec = request(e, http.MethodPost, "/users/create",
		`{"username":"bob","password":"hunter2","firstname":"Bob","lastname":"Jones"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("register bob: status = %d", rec.Code)
	}
	var bob struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bob); err != nil {
		t.Fatalf("decode bob: %v", err)
	}
	rec = request(e, http.MethodGet, "/todos/1", "", bob.AccessToken)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign read: status = %d, want 401: %s", rec.Code, rec.Body.String())
	}

	// without a token the todo routes are closed entirely
	rec = request(e, http.MethodGet, "/todos/my", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: status = %d, want 401", rec.Code)
	}

	// the refresh token from registration mints a working pair
	rec = request(e, http.MethodPost, "/auth/refresh-tokens", "", reg.RefreshToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d: %s", rec.Code, rec.Body.String())
	}
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	rec = request(e, http.MethodGet, "/users/me", "", pair.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("me with refreshed access: status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("profile leaks password material: %s", rec.Body.String())
	}
}

// TestPublicProfileRoute checks the unauthenticated profile read and
// its 404 path.
func TestPublicProfileRoute(t *testing.T) {
	e := newTestServer()

	rec := request(e, http.MethodPost, "/users/create",
		`{"username":"carol","password":"pw","firstname":"Carol","lastname":"King"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("register: status = %d", rec.Code)
	}

	rec = request(e, http.MethodGet, "/users/1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("public profile: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"carol"`) {
		t.Fatalf("unexpected profile: %s", rec.Body.String())
	}

	rec = request(e, http.MethodGet, "/users/999", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing profile: status = %d, want 404", rec.Code)
	}
}
