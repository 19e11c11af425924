package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aydinworks/content-advisor/internal/application/session"
	domsession "github.com/aydinworks/content-advisor/internal/domain/session"
)

type memStore struct {
	sessions  map[domsession.Token]*domsession.Session
	createErr error
}

func newMemStore() *memStore {
	return &memStore{sessions: map[domsession.Token]*domsession.Session{}}
}

func (m *memStore) Create(ctx context.Context, s *domsession.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[s.Token] = s
	return nil
}

func (m *memStore) Get(ctx context.Context, token domsession.Token) (*domsession.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, domsession.ErrNotFound
	}
	return s, nil
}

func (m *memStore) Touch(ctx context.Context, token domsession.Token) error {
	if _, ok := m.sessions[token]; !ok {
		return domsession.ErrNotFound
	}
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestCreateAndResolve(t *testing.T) {
	store := newMemStore()
	svc := &session.Service{Store: store, Clock: fixedClock{t: time.Now()}}

	sess, err := svc.Create(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.Token)

	got := svc.Resolve(context.Background(), string(sess.Token))
	require.NotNil(t, got)
	assert.Equal(t, sess.Token, got.Token)
}

func TestCreate_StoreFailureIsReported(t *testing.T) {
	store := newMemStore()
	store.createErr = errors.New("redis down")
	svc := &session.Service{Store: store, Clock: fixedClock{t: time.Now()}}

	sess, err := svc.Create(context.Background())
	assert.Error(t, err)
	assert.Nil(t, sess)
}

func TestResolve_AbsentToleratedSilently(t *testing.T) {
	svc := &session.Service{Store: newMemStore(), Clock: fixedClock{t: time.Now()}}

	assert.Nil(t, svc.Resolve(context.Background(), ""))
	assert.Nil(t, svc.Resolve(context.Background(), "unknown-token"))
}

func TestDemoMode_NoStore(t *testing.T) {
	svc := &session.Service{Clock: fixedClock{t: time.Now()}}

	sess, err := svc.Create(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, sess)
	assert.Nil(t, svc.Resolve(context.Background(), "anything"))
}
