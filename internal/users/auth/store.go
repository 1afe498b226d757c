// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
)

var (
	// ErrCorrupt is reported by a [Repository] when a persisted collection
	// cannot be decoded. The store starts with that collection empty.
	ErrCorrupt = errors.New("auth: persisted collection unreadable")

	// ErrSessionDiscarded is reported when the persisted session failed
	// verification and was removed.
	ErrSessionDiscarded = errors.New("auth: persisted session discarded")
)

// # Data Access

// Repository persists the three identity collections. Each one is written
// independently; there is no transaction spanning them.
type Repository interface {

	/*
		LoadAccounts returns every credential record.

		Returns:
		  - []*Account: Empty when nothing was ever saved
		  - error: ErrCorrupt or backend failures
	*/
	LoadAccounts(context context.Context) ([]*Account, error)

	// SaveAccounts overwrites the credential collection.
	SaveAccounts(context context.Context, accounts []*Account) error

	/*
		LoadProfiles returns every user profile.

		Returns:
		  - []*UserProfile: Empty when nothing was ever saved
		  - error: ErrCorrupt or backend failures
	*/
	LoadProfiles(context context.Context) ([]*UserProfile, error)

	// SaveProfiles overwrites the profile collection.
	SaveProfiles(context context.Context, profiles []*UserProfile) error

	/*
		LoadSession returns the profile snapshot of the current session.

		Returns:
		  - *UserProfile: nil when anonymous
		  - error: ErrSessionDiscarded or backend failures
	*/
	LoadSession(context context.Context) (*UserProfile, error)

	// SaveSession stores the session snapshot; nil signs out.
	SaveSession(context context.Context, profile *UserProfile) error
}
