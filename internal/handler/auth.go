package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/readyyyk/next-todos-api/internal/config"
	"github.com/readyyyk/next-todos-api/internal/repository"
	"github.com/readyyyk/next-todos-api/internal/utils"
)

// AuthHandler bundles dependencies for the login and refresh endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, u UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// invalidCredentials is the single message for every login failure.
// Unknown username and wrong password must be indistinguishable so
// the endpoint cannot be used to probe which accounts exist.
const invalidCredentials = "Invalid username or password!"

// issuePair mints a fresh access+refresh pair bound to userID.
func (h *AuthHandler) issuePair(userID uint64) (tokenPair, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, userID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{AccessToken: access.Token, RefreshToken: refresh.Token}, nil
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, invalidCredentials)
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, invalidCredentials)
	}

	pair, err := h.issuePair(u.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, pair)
}

// RefreshTokens validates a refresh token and mints a brand-new pair
// bound to the same subject. The presented refresh token stays valid
// until its own expiry; there is no rotation or server-side
// revocation (tokens are stateless).
func (h *AuthHandler) RefreshTokens(c echo.Context) error {
	raw := bearerToken(c)
	if raw == "" {
		var req refreshReq
		_ = c.Bind(&req)
		raw = strings.TrimSpace(req.RefreshToken)
	}
	if raw == "" {
		return fail(c, http.StatusBadRequest, "refresh token required")
	}

	userID, err := utils.VerifyToken(h.Cfg.JWTSecret, raw, utils.KindRefresh)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return fail(c, http.StatusUnauthorized, "refresh token expired")
		}
		return fail(c, http.StatusUnauthorized, "invalid refresh token")
	}

	pair, err := h.issuePair(userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, pair)
}

// bearerToken pulls the raw credential out of the Authorization
// header, or "" when none is present.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
