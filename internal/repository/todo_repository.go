package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/readyyyk/next-todos-api/internal/model"
)

// TodoPatch lists the todo fields a partial update may touch.
// OwnerID is deliberately absent: ownership is immutable.
type TodoPatch struct {
	Description *string
	State       *model.TodoState
}

// TodoRepo persists todos in MySQL.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

var _ Store[model.Todo, TodoPatch] = (*TodoRepo)(nil)

const todoColumns = "id,owner_id,description,state,created_at"

// Create inserts a todo and returns the stored row. State falls back
// to passive when the caller leaves it empty.
func (r *TodoRepo) Create(ctx context.Context, t model.Todo) (model.Todo, error) {
	if t.State == "" {
		t.State = model.StatePassive
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (owner_id, description, state) VALUES (?,?,?)",
		t.OwnerID, t.Description, string(t.State))
	if err != nil {
		return model.Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Todo{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a todo by id.
func (r *TodoRepo) GetByID(ctx context.Context, id uint64) (model.Todo, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id=? LIMIT 1", id))
}

// ListByOwner returns every todo belonging to ownerID, oldest first.
// Scoping happens in the query itself so no post-filtering is needed
// and foreign rows never leave the database.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE owner_id=? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Description, &t.State, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Update applies the non-nil patch fields and returns the updated row.
func (r *TodoRepo) Update(ctx context.Context, id uint64, patch TodoPatch) (model.Todo, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if patch.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *patch.Description)
	}
	if patch.State != nil {
		sets = append(sets, "state=?")
		args = append(args, string(*patch.State))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE todos SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
		return model.Todo{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the todo row, reporting whether a row was deleted.
func (r *TodoRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM todos WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TodoRepo) scanOne(row *sql.Row) (model.Todo, error) {
	var t model.Todo
	err := row.Scan(&t.ID, &t.OwnerID, &t.Description, &t.State, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	return t, err
}
