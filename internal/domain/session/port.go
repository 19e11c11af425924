package session

import "context"

// Store port for session persistence. Entries expire on their own (TTL);
// nothing here ever deletes a session explicitly.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, token Token) (*Session, error)
	Touch(ctx context.Context, token Token) error
}
