package session

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeSessionStore struct {
	values map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{values: map[string]string{}}
}

func (f *fakeSessionStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeSessionStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func newTestManager() (*Manager, *fakeSessionStore) {
	store := newFakeSessionStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	ok, err := m.HasSession(ctx, "jti-1")
	if err != nil || !ok {
		t.Fatalf("expected active session, got ok=%v err=%v", ok, err)
	}

	ok, err = m.HasSession(ctx, "jti-2")
	if err != nil || ok {
		t.Fatalf("expected missing session, got ok=%v err=%v", ok, err)
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-old")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	newID, newToken, err := m.Rotate(ctx, "jti-old", token)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if newID == "jti-old" || newToken == token {
		t.Fatal("rotation must issue a fresh pair")
	}

	ok, _ := m.HasSession(ctx, "jti-old")
	if ok {
		t.Fatal("old session must be revoked by rotation")
	}
	ok, _ = m.HasSession(ctx, newID)
	if !ok {
		t.Fatal("new session must be active")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if _, err := m.Generate(ctx, "jti-x"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, _, err := m.Rotate(ctx, "jti-x", "forged"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if _, err := m.Generate(ctx, "jti-r"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if err := m.Revoke(ctx, "jti-r"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	ok, _ := m.HasSession(ctx, "jti-r")
	if ok {
		t.Fatal("session must be gone after revoke")
	}
}
