package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/readyyyk/next-todos-api/internal/utils"
)

const secret = "middleware-test-secret"

func invoke(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uint64) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/todos/my", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured uint64
	next := func(c echo.Context) error {
		captured, _ = c.Get(UserIDKey).(uint64)
		return c.NoContent(http.StatusOK)
	}
	if err := JWTAuth(secret)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, captured
}

func TestJWTAuthAcceptsAccessToken(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, uid := invoke(t, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if uid != 42 {
		t.Fatalf("user_id = %d, want 42", uid)
	}
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	if rec, _ := invoke(t, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	tok, err := utils.NewRefreshToken(secret, 42, 30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if rec, _ := invoke(t, "Bearer "+tok.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if rec, _ := invoke(t, "Bearer "+tok.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
