// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/sec"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// KVRepository implements [Repository] on top of [storage.Storage].
//
// The session is written as a signed token so a hand-edited value is
// rejected at load instead of trusted.
type KVRepository struct {
	store  storage.Storage
	signer *sec.SessionSigner
}

// NewKVRepository creates a new [KVRepository].
func NewKVRepository(store storage.Storage, signer *sec.SessionSigner) *KVRepository {
	return &KVRepository{store: store, signer: signer}
}

// LoadAccounts implements [Repository].
func (repository *KVRepository) LoadAccounts(context context.Context) ([]*Account, error) {
	return loadList[Account](context, repository.store, constants.KeyAccounts)
}

// SaveAccounts implements [Repository].
func (repository *KVRepository) SaveAccounts(context context.Context, accounts []*Account) error {
	return saveList(context, repository.store, constants.KeyAccounts, accounts)
}

// LoadProfiles implements [Repository].
func (repository *KVRepository) LoadProfiles(context context.Context) ([]*UserProfile, error) {
	return loadList[UserProfile](context, repository.store, constants.KeyProfiles)
}

// SaveProfiles implements [Repository].
func (repository *KVRepository) SaveProfiles(context context.Context, profiles []*UserProfile) error {
	return saveList(context, repository.store, constants.KeyProfiles, profiles)
}

/*
LoadSession implements [Repository].

Description: A token that fails verification, or whose subject does not
match its profile, is deleted from storage and reported as
[ErrSessionDiscarded].
*/
func (repository *KVRepository) LoadSession(context context.Context) (*UserProfile, error) {
	raw, err := repository.store.Get(context, constants.KeySession)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth_session_load_failed: %w", err)
	}

	var profile UserProfile
	subject, err := repository.signer.Verify(string(raw), &profile)
	if err == nil && subject != profile.ID {
		err = fmt.Errorf("subject %q does not match profile %q", subject, profile.ID)
	}
	if err != nil {
		if deleteErr := repository.store.Delete(context, constants.KeySession); deleteErr != nil {
			return nil, fmt.Errorf("auth_session_discard_failed: %w", deleteErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionDiscarded, err)
	}

	return &profile, nil
}

// SaveSession implements [Repository].
func (repository *KVRepository) SaveSession(context context.Context, profile *UserProfile) error {
	if profile == nil {
		if err := repository.store.Delete(context, constants.KeySession); err != nil {
			return fmt.Errorf("auth_session_clear_failed: %w", err)
		}
		return nil
	}

	token, err := repository.signer.Sign(profile.ID, profile)
	if err != nil {
		return fmt.Errorf("auth_session_sign_failed: %w", err)
	}
	if err := repository.store.Set(context, constants.KeySession, []byte(token)); err != nil {
		return fmt.Errorf("auth_session_save_failed: %w", err)
	}
	return nil
}

// loadList decodes a JSON array stored under key. A missing key is an empty
// list; a malformed value or a null entry is [ErrCorrupt].
func loadList[T any](context context.Context, store storage.Storage, key string) ([]*T, error) {
	raw, err := store.Get(context, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []*T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth_load_failed: %s: %w", key, err)
	}

	var items []*T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: %s: null entry at %d", ErrCorrupt, key, i)
		}
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}

func saveList[T any](context context.Context, store storage.Storage, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := storage.SetJSON(context, store, key, items); err != nil {
		return fmt.Errorf("auth_save_failed: %s: %w", key, err)
	}
	return nil
}
