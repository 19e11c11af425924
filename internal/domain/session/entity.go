package session

import (
	"errors"
	"time"
)

// Token is the opaque anonymous identity handed to a client
type Token string

// Session scopes a client's writes. It is anonymous; there is no account behind it.
type Session struct {
	Token     Token     `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrNotFound indicates the token is unknown or expired
var ErrNotFound = errors.New("session not found")
