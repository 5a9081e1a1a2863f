package utils // package utils provides helpers for token issuance and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. Every issued token carries one of these in its "kind"
// claim so a long-lived refresh token can never be accepted where a
// short-lived access token is required, and vice versa.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Verification failures. VerifyToken maps every library error onto
// one of these sentinels so callers can respond uniformly without
// importing the jwt package.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrWrongKind      = errors.New("token kind mismatch")
)

// SignedToken is a serialized HS256 JWT together with its expiry.
// The Token field is what clients put in the Authorization header.
type SignedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken signs a short-lived access token bound to userID.
// The JWT carries the subject (sub), the kind tag, expiration (exp)
// and issued-at (iat) claims.
func NewAccessToken(secret string, userID uint64, ttlMin int) (SignedToken, error) {
	return newSigned(secret, userID, KindAccess, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken signs a long-lived refresh token bound to userID.
// Refresh tokens are self-contained like access tokens; nothing is
// persisted server-side and validity is purely signature + expiry.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (SignedToken, error) {
	return newSigned(secret, userID, KindRefresh, time.Duration(ttlDays)*24*time.Hour)
}

func newSigned(secret string, userID uint64, kind string, ttl time.Duration) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"kind": kind,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// VerifyToken checks signature integrity, expiry and kind, returning
// the subject user id on success. The kind argument must be
// KindAccess or KindRefresh depending on what the call site expects.
func VerifyToken(secret, raw, kind string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC signatures are acceptable; an attacker must not be
		// able to downgrade to "none" or switch to an RSA public key.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrBadSignature
		default:
			return 0, ErrTokenMalformed
		}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return 0, ErrTokenMalformed
	}
	if k, _ := claims["kind"].(string); k != kind {
		return 0, ErrWrongKind
	}
	// JWT numbers decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrTokenMalformed
	}
	return uint64(sub), nil
}
