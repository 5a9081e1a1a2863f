// Package repository defines error sentinels that are reused across
// repositories. These values let handlers distinguish failure
// scenarios without depending on driver details: a missing row is
// always ErrNotFound regardless of which query produced it, and a
// unique-constraint hit on signup is always ErrUsernameExists.
// Raw sql.ErrNoRows never escapes this package.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers
// translate it into an HTTP 404 (or 401 where the convention
// conflates missing auth subjects with unauthorized access).
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when a user insert violates the
// unique username constraint.
var ErrUsernameExists = errors.New("user with this name already exists")
