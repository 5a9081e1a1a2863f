package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/readyyyk/next-todos-api/internal/model"
	"github.com/readyyyk/next-todos-api/internal/repository"
)

// In-memory store implementations for handler tests. They honor the
// same contracts as the MySQL repositories: sentinel errors for
// missing rows and duplicate usernames, generated ids and creation
// timestamps.

type fakeUserStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{rows: map[uint64]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) (model.User, error) {
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

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) Update(_ context.Context, id uint64, patch repository.UserPatch) (model.User, error) {
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

func (s *fakeUserStore) Delete(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

type fakeTodoStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]model.Todo
}

func newFakeTodoStore() *fakeTodoStore {
	return &fakeTodoStore{rows: map[uint64]model.Todo{}}
}

func (s *fakeTodoStore) Create(_ context.Context, t model.Todo) (model.Todo, error) {
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

func (s *fakeTodoStore) GetByID(_ context.Context, id uint64) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return model.Todo{}, repository.ErrNotFound
	}
	return t, nil
}

func (s *fakeTodoStore) ListByOwner(_ context.Context, ownerID uint64) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos := []model.Todo{}
	for _, t := range s.rows {
		if t.OwnerID == ownerID {
			todos = append(todos, t)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (s *fakeTodoStore) Update(_ context.Context, id uint64, patch repository.TodoPatch) (model.Todo, error) {
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

func (s *fakeTodoStore) Delete(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

// Compile-time checks that the fakes satisfy the handler contracts.
var (
	_ UserStore = (*fakeUserStore)(nil)
	_ TodoStore = (*fakeTodoStore)(nil)
)
