package session

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/aydinworks/content-advisor/internal/application"
	domsession "github.com/aydinworks/content-advisor/internal/domain/session"
)

// Service mints and resolves anonymous sessions. A nil store means demo mode:
// no session is ever created and every resolve answers absent.
type Service struct {
	Store domsession.Store
	Clock application.Clock
}

// Create mints one anonymous session. Store failure is logged and reported;
// callers treat it as non-fatal and continue without a session.
func (s *Service) Create(ctx context.Context) (*domsession.Session, error) {
	if s.Store == nil {
		return nil, nil
	}
	sess := &domsession.Session{
		Token:     domsession.Token(uuid.New().String()),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Store.Create(ctx, sess); err != nil {
		log.Printf("warn: anonymous sign-in failed: %v", err)
		return nil, err
	}
	return sess, nil
}

// Resolve maps a client token to its session. Absent, unknown or expired
// tokens all resolve to nil without surfacing an error; the app must
// tolerate an absent session indefinitely.
func (s *Service) Resolve(ctx context.Context, token string) *domsession.Session {
	if s.Store == nil || token == "" {
		return nil
	}
	sess, err := s.Store.Get(ctx, domsession.Token(token))
	if err != nil {
		if err != domsession.ErrNotFound {
			log.Printf("warn: session lookup failed: %v", err)
		}
		return nil
	}
	// sliding expiry; best-effort
	if err := s.Store.Touch(ctx, sess.Token); err != nil && err != domsession.ErrNotFound {
		log.Printf("warn: session touch failed: %v", err)
	}
	return sess
}
