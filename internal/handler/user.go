package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readyyyk/next-todos-api/internal/config"
	"github.com/readyyyk/next-todos-api/internal/model"
	"github.com/readyyyk/next-todos-api/internal/queue"
	"github.com/readyyyk/next-todos-api/internal/repository"
	"github.com/readyyyk/next-todos-api/internal/utils"
)

// UserHandler bundles dependencies for account endpoints. Publish
// may be nil, which disables activity events (used in tests).
type UserHandler struct {
	Cfg     config.Config
	Users   UserStore
	Publish ActivityPublisher
}

func NewUserHandler(cfg config.Config, u UserStore, pub ActivityPublisher) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Publish: pub}
}

type registerReq struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Image     string `json:"image"`
}

type userUpdateReq struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Image     *string `json:"image"`
	Password  *string `json:"password"`
}

type registerResp struct {
	User         model.PublicUser `json:"user"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
}

// Create registers a new account and returns the user together with
// its initial token pair. The password check a login would perform is
// skipped: the digest was produced from the submitted password just
// now, so the pair is minted directly for the created identity.
func (h *UserHandler) Create(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Username == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return fail(c, http.StatusBadRequest, "username, password, firstname and lastname are required")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "hash password failed")
	}
	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = model.DefaultImageURL(req.Username)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, model.User{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ImageURL:     image,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			// The constraint message is considered safe to surface here.
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue access failed")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, u.ID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue refresh failed")
	}

	if h.Publish != nil {
		ev := queue.ActivityEvent{
			Kind:       queue.KindUserRegistered,
			UserID:     u.ID,
			Username:   u.Username,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = h.Publish(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, registerResp{
		User:         u.Public(),
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
	})
}

// Me returns the caller's own profile, password digest excluded.
func (h *UserHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Valid token for an account that no longer exists.
			return fail(c, http.StatusUnauthorized, "unauthorized")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, u.Public())
}

// GetByID returns any user's public profile. No authentication:
// profiles contain nothing sensitive once sanitized.
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User with this id not found!")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, u.Public())
}

// Update applies a partial update to the caller's own profile.
// Username is immutable; a submitted password is re-hashed before it
// reaches the store.
func (h *UserHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	patch := repository.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.Image,
	}
	if req.Password != nil {
		if *req.Password == "" {
			return fail(c, http.StatusBadRequest, "password must not be empty")
		}
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "hash password failed")
		}
		patch.PasswordHash = &hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, uid, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "unauthorized")
		}
		return fail(c, http.StatusInternalServerError, "update user failed")
	}
	return c.JSON(http.StatusOK, u.Public())
}

// Delete removes the caller's own account. Owned todos are removed
// by the database cascade.
func (h *UserHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Users.Delete(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "delete user failed")
	}
	if !ok {
		return fail(c, http.StatusNotFound, "User with this id not found!")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully deleted user"})
}
