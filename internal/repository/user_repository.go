package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/readyyyk/next-todos-api/internal/model"
)

// UserPatch lists the user fields a partial update may touch. Nil
// means "leave unchanged". Username is deliberately absent: it is
// immutable after signup.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	ImageURL     *string
	PasswordHash *string
}

// UserRepo persists users in MySQL.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var _ Store[model.User, UserPatch] = (*UserRepo)(nil)

const userColumns = "id,username,password_hash,first_name,last_name,image_url,registered_at"

// Create inserts a user and returns the stored row. The password
// must already be hashed by the caller; this layer only persists
// digests.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, first_name, last_name, image_url) VALUES (?,?,?,?,?)",
		u.Username, u.PasswordHash, u.FirstName, u.LastName, u.ImageURL)
	if err != nil {
		// MySQL duplicate-key errors carry code 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	// Reload so generated columns (registered_at) come back populated.
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// Update applies the non-nil patch fields and returns the updated row.
func (r *UserRepo) Update(ctx context.Context, id uint64, patch UserPatch) (model.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if patch.FirstName != nil {
		sets = append(sets, "first_name=?")
		args = append(args, *patch.FirstName)
	}
	if patch.LastName != nil {
		sets = append(sets, "last_name=?")
		args = append(args, *patch.LastName)
	}
	if patch.ImageURL != nil {
		sets = append(sets, "image_url=?")
		args = append(args, *patch.ImageURL)
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *patch.PasswordHash)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the user row. Owned todos go with it via the
// ON DELETE CASCADE constraint on todos.owner_id.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.ImageURL, &u.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
