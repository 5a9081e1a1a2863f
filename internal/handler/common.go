package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/readyyyk/next-todos-api/internal/model"
	"github.com/readyyyk/next-todos-api/internal/queue"
	"github.com/readyyyk/next-todos-api/internal/repository"
)

// UserStore is the credential-store contract the handlers need. The
// concrete implementation is repository.UserRepo; tests substitute
// an in-memory fake.
type UserStore interface {
	repository.Store[model.User, repository.UserPatch]
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// TodoStore is the todo-store contract the handlers need,
// implemented by repository.TodoRepo.
type TodoStore interface {
	repository.Store[model.Todo, repository.TodoPatch]
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Todo, error)
}

// ActivityPublisher sends an activity event to the broker. A nil
// publisher disables event emission.
type ActivityPublisher func(ctx context.Context, ev queue.ActivityEvent) error

// getUserID extracts the authenticated subject placed into the
// context by the JWT middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// fail writes the uniform {message, code} error payload.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, model.APIError{Message: msg, Code: status})
}
