package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readyyyk/next-todos-api/internal/model"
	"github.com/readyyyk/next-todos-api/internal/queue"
	"github.com/readyyyk/next-todos-api/internal/repository"
)

// TodoHandler bundles dependencies for todo endpoints. Every route
// behind it is owner-scoped: the acting identity comes from the
// verified access token and must match the resource owner.
type TodoHandler struct {
	Todos   TodoStore
	Users   UserStore
	Publish ActivityPublisher
}

func NewTodoHandler(t TodoStore, u UserStore, pub ActivityPublisher) *TodoHandler {
	return &TodoHandler{Todos: t, Users: u, Publish: pub}
}

// todoCreateReq deliberately has no owner field: ownership is always
// taken from the authenticated subject, so a client-supplied
// owner_id in the payload is ignored by binding.
type todoCreateReq struct {
	Description string          `json:"description"`
	State       model.TodoState `json:"state"`
}

type todoUpdateReq struct {
	Description *string          `json:"description"`
	State       *model.TodoState `json:"state"`
}

type todoWithOwnerResp struct {
	Todo  model.Todo       `json:"todo"`
	Owner model.PublicUser `json:"owner"`
}

const todoNotFound = "Todo with this id not found!"
const todoNotAccessible = "Todo is not accessible to this user!"

// loadOwned fetches the todo and enforces the ownership invariant.
// A missing row is 404; a row owned by someone else is 401 in this
// system's convention (not 403), so existence of foreign todos is
// still acknowledged but never their content.
func (h *TodoHandler) loadOwned(ctx context.Context, c echo.Context, ownerID uint64) (model.Todo, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		_ = fail(c, http.StatusBadRequest, "invalid todo id")
		return model.Todo{}, false
	}
	t, err := h.Todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = fail(c, http.StatusNotFound, todoNotFound)
		} else {
			_ = fail(c, http.StatusInternalServerError, "query failed")
		}
		return model.Todo{}, false
	}
	if t.OwnerID != ownerID {
		_ = fail(c, http.StatusUnauthorized, todoNotAccessible)
		return model.Todo{}, false
	}
	return t, true
}

// My lists the caller's todos. The store query itself is scoped by
// owner, so there is nothing to post-filter.
func (h *TodoHandler) My(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todos, err := h.Todos.ListByOwner(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, todos)
}

// Create inserts a todo owned by the caller.
func (h *TodoHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req todoCreateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return fail(c, http.StatusBadRequest, "description is required")
	}
	if req.State == "" {
		req.State = model.StatePassive
	}
	if !req.State.Valid() {
		return fail(c, http.StatusBadRequest, "invalid todo state")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Todos.Create(ctx, model.Todo{
		OwnerID:     uid, // always the authenticated caller
		Description: req.Description,
		State:       req.State,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error creating todo!")
	}

	if h.Publish != nil {
		ev := queue.ActivityEvent{
			Kind:        queue.KindTodoCreated,
			UserID:      uid,
			TodoID:      t.ID,
			Description: t.Description,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = h.Publish(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, t)
}

// Get returns a single todo when the caller owns it.
func (h *TodoHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, ok := h.loadOwned(ctx, c, uid)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, t)
}

// GetWithOwner returns a todo together with the owner's public
// profile. The ownership guard applies, so the embedded profile is
// always the caller's own.
func (h *TodoHandler) GetWithOwner(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, ok := h.loadOwned(ctx, c, uid)
	if !ok {
		return nil
	}
	owner, err := h.Users.GetByID(ctx, t.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User with this id not found!")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, todoWithOwnerResp{Todo: t, Owner: owner.Public()})
}

// Update applies a partial update to an owned todo.
func (h *TodoHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req todoUpdateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.State != nil && !req.State.Valid() {
		return fail(c, http.StatusBadRequest, "invalid todo state")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, ok := h.loadOwned(ctx, c, uid)
	if !ok {
		return nil
	}
	updated, err := h.Todos.Update(ctx, t.ID, repository.TodoPatch{
		Description: req.Description,
		State:       req.State,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error updating todo!")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes an owned todo.
func (h *TodoHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, ok := h.loadOwned(ctx, c, uid)
	if !ok {
		return nil
	}
	deleted, err := h.Todos.Delete(ctx, t.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error deleting todo")
	}
	if !deleted {
		return fail(c, http.StatusNotFound, todoNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully deleted todo"})
}
