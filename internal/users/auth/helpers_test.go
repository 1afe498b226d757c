// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/sakura/internal/platform/sec"
	"github.com/taibuivan/sakura/internal/platform/storage"
	"github.com/taibuivan/sakura/internal/users/auth"
)

const ownerEmail = "owner@sakura.local"

var (
	discard      = slog.New(slog.NewTextHandler(io.Discard, nil))
	referenceNow = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	hasher       = sec.NewHasher(bcrypt.MinCost)
)

// fixture bundles a store, its backend and the clock tests move.
type fixture struct {
	store      *auth.Store
	backend    *storage.Memory
	repository *auth.KVRepository
	now        time.Time
	ids        func() string
}

func newFixture(t *testing.T, options ...auth.Option) *fixture {
	t.Helper()

	backend := storage.NewMemory()
	f := &fixture{
		backend:    backend,
		repository: auth.NewKVRepository(backend, sec.NewSessionSigner("test-secret", "sakura")),
		now:        referenceNow,
		ids:        sequentialIDs(),
	}
	f.store = f.open(options...)
	return f
}

// open builds a fresh store over the fixture's backend, as a restart would.
func (f *fixture) open(options ...auth.Option) *auth.Store {
	options = append([]auth.Option{
		auth.WithClock(func() time.Time { return f.now }),
		auth.WithIDs(f.ids),
		auth.WithLogger(discard),
		auth.WithHasher(hasher),
		auth.WithOwnerEmail(ownerEmail),
	}, options...)

	return auth.NewStore(context.Background(), f.repository, options...)
}

// register signs up a user and fails the test on a refused outcome.
func (f *fixture) register(t *testing.T, username, email, password string) *auth.UserProfile {
	t.Helper()

	result := f.store.Register(context.Background(), username, email, password)
	if !result.Success {
		t.Fatalf("register %s: %s", username, result.Message)
	}
	profile, _ := f.store.CurrentUser()
	return profile
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("user-%d", n)
	}
}
