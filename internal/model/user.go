package model

import (
	"net/url"
	"time"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers expose
// the sanitized PublicUser shape instead so the password digest
// never reaches a response body.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name.
//  LastName     – family name.
//  ImageURL     – avatar URL (defaults to a generated identicon).
//  RegisteredAt – timestamp of account creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	ImageURL     string    // users.image_url
	RegisteredAt time.Time // users.registered_at
}

// PublicUser is the client-facing user shape.  It carries every
// profile field except the password digest.
type PublicUser struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"firstname"`
	LastName   string    `json:"lastname"`
	Image      string    `json:"image"`
	Registered time.Time `json:"registered"`
}

// Public returns the sanitized representation of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Image:      u.ImageURL,
		Registered: u.RegisteredAt,
	}
}

// DefaultImageURL builds the identicon avatar used when signup does
// not supply an image.  The username seeds the generated picture so
// every account gets a stable, distinct default.
func DefaultImageURL(username string) string {
	return "https://api.dicebear.com/7.x/identicon/svg?seed=" + url.QueryEscape(username)
}
