// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/sakura/internal/platform/broadcast"
	"github.com/taibuivan/sakura/internal/platform/ctxutil"
	"github.com/taibuivan/sakura/internal/platform/sec"
	"github.com/taibuivan/sakura/pkg/slice"
	"github.com/taibuivan/sakura/pkg/uuidv7"
)

// Change operations published by the [Store].
const (
	OpUserRegistered  = "user_registered"
	OpSessionStarted  = "session_started"
	OpSessionEnded    = "session_ended"
	OpBookmarkAdded   = "bookmark_added"
	OpBookmarkRemoved = "bookmark_removed"
	OpProfileUpdated  = "profile_updated"
	OpPasswordChanged = "password_changed"
	OpUserDeleted     = "user_deleted"
)

// dirty marks which collections a mutation touched.
type dirty uint8

const (
	dirtyAccounts dirty = 1 << iota
	dirtyProfiles
	dirtySession
)

// # Store

// Store holds accounts, profiles and the current session of the process.
//
// The process acts as one client, so there is exactly one session: either
// anonymous or signed in as one profile. Switching profiles requires a
// logout; Login and Register clear any existing session first.
type Store struct {
	mu       sync.RWMutex
	accounts []*Account
	profiles []*UserProfile
	session  *UserProfile

	repository Repository
	hasher     *sec.Hasher
	ownerEmail string
	latency    time.Duration
	now        func() time.Time
	newID      uuidv7.Generator
	logger     *slog.Logger
	publisher  broadcast.Publisher[broadcast.Change]
}

// Option configures a [Store].
type Option func(*Store)

// WithClock replaces the wall clock used for join and creation times.
func WithClock(now func() time.Time) Option {
	return func(store *Store) { store.now = now }
}

// WithIDs replaces the user id generator.
func WithIDs(next uuidv7.Generator) Option {
	return func(store *Store) { store.newID = next }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(store *Store) { store.logger = logger }
}

// WithPublisher receives a [broadcast.Change] after every committed mutation.
func WithPublisher(publisher broadcast.Publisher[broadcast.Change]) Option {
	return func(store *Store) { store.publisher = publisher }
}

// WithLatency delays Register and Login by d, as the web client always did.
func WithLatency(d time.Duration) Option {
	return func(store *Store) { store.latency = d }
}

// WithOwnerEmail sets the email that receives the admin role at registration.
func WithOwnerEmail(email string) Option {
	return func(store *Store) { store.ownerEmail = email }
}

// WithHasher replaces the password hasher.
func WithHasher(hasher *sec.Hasher) Option {
	return func(store *Store) { store.hasher = hasher }
}

/*
NewStore rehydrates the identity collections from repository.

Description: Unreadable collections start empty. A discarded session starts
anonymous. A session whose user no longer exists is dropped; otherwise the
stored profile replaces the session snapshot, which may be older.

Parameters:
  - context: context.Context
  - repository: Repository
  - options: ...Option

Returns:
  - *Store: Always usable
*/
func NewStore(context context.Context, repository Repository, options ...Option) *Store {
	store := &Store{
		repository: repository,
		hasher:     sec.NewHasher(0),
		now:        time.Now,
		newID:      uuidv7.New,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(store)
	}

	accounts, err := repository.LoadAccounts(context)
	if err != nil {
		store.logger.Warn("accounts_load_failed", slog.Any("error", err))
		accounts = []*Account{}
	}
	store.accounts = slice.UniqueBy(accounts, func(account *Account) string { return account.ID })

	profiles, err := repository.LoadProfiles(context)
	if err != nil {
		store.logger.Warn("profiles_load_failed", slog.Any("error", err))
		profiles = []*UserProfile{}
	}
	for _, profile := range profiles {
		if profile.Bookmarks == nil {
			profile.Bookmarks = []string{}
		}
	}
	store.profiles = slice.UniqueBy(profiles, func(profile *UserProfile) string { return profile.ID })

	session, err := repository.LoadSession(context)
	if err != nil {
		store.logger.Warn("session_discarded", slog.Any("reason", err))
	}
	if session != nil {
		if current := store.findProfile(session.ID); current != nil {
			store.session = current.Clone()
		} else {
			store.logger.Warn("session_discarded", slog.String("user_id", session.ID), slog.String("reason", "unknown user"))
			store.persist(context, dirtySession)
		}
	}

	store.logger.Info("identity_loaded",
		slog.Int("accounts", len(store.accounts)),
		slog.Int("profiles", len(store.profiles)),
		slog.Bool("signed_in", store.session != nil),
	)
	return store
}

// # Session Lifecycle

/*
Register creates an account and profile and signs the new user in.

Description: The email must be unused among accounts and the username among
profiles. The owner email receives the admin role. A refused registration
leaves the current session untouched; a successful one replaces it. Waiting
for the simulated latency honours context cancellation.

Parameters:
  - context: context.Context
  - username: string
  - email: string
  - password: string (plain text, stored as a bcrypt hash)

Returns:
  - Result: Outcome shown to the reader
*/
func (store *Store) Register(context context.Context, username, email, password string) Result {
	if err := store.wait(context); err != nil {
		return failed(MsgCancelled)
	}

	hash, err := store.hasher.Hash(password)
	if err != nil {
		store.logger.Error("password_hash_failed", slog.Any("error", err))
		return failed(MsgRegisterFailed)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if slices.ContainsFunc(store.accounts, func(a *Account) bool { return a.Email == email }) {
		return failed(MsgEmailRegistered)
	}
	if store.findUsername(username) != nil {
		return failed(MsgUsernameTaken)
	}

	now := store.now()
	id := store.newID()

	role := sec.RoleUser
	if store.ownerEmail != "" && email == store.ownerEmail {
		role = sec.RoleAdmin
	}

	store.accounts = append(store.accounts, &Account{ID: id, Email: email, Password: hash, CreatedAt: now})
	profile := &UserProfile{
		ID:        id,
		Username:  username,
		Email:     email,
		Role:      role,
		Avatar:    DefaultAvatar(username),
		JoinedAt:  now,
		Bookmarks: []string{},
	}
	store.profiles = append(store.profiles, profile)
	store.session = profile.Clone()

	store.commit(context, OpUserRegistered, id, dirtyAccounts|dirtyProfiles|dirtySession)
	return ok(MsgRegistered)
}

/*
Login signs in the account matching email and password. A failed attempt
keeps whoever is signed in; a successful one replaces the session.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - Result: Outcome shown to the reader
*/
func (store *Store) Login(context context.Context, email, password string) Result {
	if err := store.wait(context); err != nil {
		return failed(MsgCancelled)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	index := slices.IndexFunc(store.accounts, func(a *Account) bool { return a.Email == email })
	if index < 0 || !store.hasher.Matches(password, store.accounts[index].Password) {
		return failed(MsgInvalidCredentials)
	}

	profile := store.findProfile(store.accounts[index].ID)
	if profile == nil {
		return failed(MsgProfileMissing)
	}

	store.session = profile.Clone()
	store.commit(context, OpSessionStarted, profile.ID, dirtySession)
	return ok(MsgLoggedIn)
}

// Logout ends the current session. Signing out while anonymous is a no-op.
func (store *Store) Logout(context context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.session == nil {
		return nil
	}
	id := store.session.ID
	store.session = nil

	return store.commit(context, OpSessionEnded, id, dirtySession)
}

// CurrentUser returns a copy of the signed-in profile.
func (store *Store) CurrentUser() (*UserProfile, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.session == nil {
		return nil, false
	}
	return store.session.Clone(), true
}

// Principal implements middleware.SessionReader.
func (store *Store) Principal() (*ctxutil.Principal, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.session == nil {
		return nil, false
	}
	return &ctxutil.Principal{
		UserID:   store.session.ID,
		Username: store.session.Username,
		Role:     store.session.Role,
	}, true
}

// # Bookmarks

// AddBookmark adds comicID to the signed-in user's bookmarks. It is a no-op
// when anonymous or already bookmarked.
func (store *Store) AddBookmark(context context.Context, comicID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.session == nil || slices.Contains(store.session.Bookmarks, comicID) {
		return nil
	}

	store.session.Bookmarks = append(store.session.Bookmarks, comicID)
	store.syncSessionProfile()

	return store.commit(context, OpBookmarkAdded, comicID, dirtyProfiles|dirtySession)
}

// RemoveBookmark removes comicID from the signed-in user's bookmarks. It is
// a no-op when anonymous or not bookmarked.
func (store *Store) RemoveBookmark(context context.Context, comicID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.session == nil || !slices.Contains(store.session.Bookmarks, comicID) {
		return nil
	}

	store.session.Bookmarks = slices.DeleteFunc(store.session.Bookmarks, func(id string) bool { return id == comicID })
	store.syncSessionProfile()

	return store.commit(context, OpBookmarkRemoved, comicID, dirtyProfiles|dirtySession)
}

// IsBookmarked reports whether the signed-in user bookmarked comicID.
func (store *Store) IsBookmarked(comicID string) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return store.session != nil && slices.Contains(store.session.Bookmarks, comicID)
}

// BookmarkCount returns how many users bookmarked comicID.
func (store *Store) BookmarkCount(comicID string) int {
	store.mu.RLock()
	defer store.mu.RUnlock()

	count := 0
	for _, profile := range store.profiles {
		if slices.Contains(profile.Bookmarks, comicID) {
			count++
		}
	}
	return count
}

// # Profile

/*
UpdateProfile merges update into the signed-in profile.

Description: A new email must not belong to another account, and a new
username must not belong to another profile. An email change is carried
over to the account so the user logs in with it.

Parameters:
  - context: context.Context
  - update: ProfileUpdate

Returns:
  - Result: Outcome shown to the reader
*/
func (store *Store) UpdateProfile(context context.Context, update ProfileUpdate) Result {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.session == nil {
		return failed(MsgNotAuthenticated)
	}
	self := store.session.ID

	if update.Email != nil && *update.Email != store.session.Email {
		taken := slices.ContainsFunc(store.accounts, func(a *Account) bool {
			return a.Email == *update.Email && a.ID != self
		})
		if taken {
			return failed(MsgEmailTaken)
		}
	}
	if update.Username != nil && *update.Username != store.session.Username {
		if other := store.findUsername(*update.Username); other != nil && other.ID != self {
			return failed(MsgUsernameTaken)
		}
	}

	touched := dirtyProfiles | dirtySession
	if update.Username != nil {
		store.session.Username = *update.Username
	}
	if update.Avatar != nil {
		store.session.Avatar = *update.Avatar
	}
	if update.Description != nil {
		store.session.Description = *update.Description
	}
	if update.Email != nil && *update.Email != store.session.Email {
		store.session.Email = *update.Email
		if account := store.findAccount(self); account != nil {
			account.Email = *update.Email
			touched |= dirtyAccounts
		}
	}
	store.syncSessionProfile()

	store.commit(context, OpProfileUpdated, self, touched)
	return ok(MsgProfileUpdated)
}

/*
ChangePassword replaces the signed-in user's password.

Parameters:
  - context: context.Context
  - current: string
  - next: string

Returns:
  - Result: Outcome shown to the reader
*/
func (store *Store) ChangePassword(context context.Context, current, next string) Result {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.session == nil {
		return failed(MsgNotAuthenticated)
	}

	account := store.findAccount(store.session.ID)
	if account == nil {
		return failed(MsgAccountMissing)
	}
	if !store.hasher.Matches(current, account.Password) {
		return failed(MsgWrongPassword)
	}

	hash, err := store.hasher.Hash(next)
	if err != nil {
		store.logger.Error("password_hash_failed", slog.Any("error", err))
		return failed(MsgPasswordFailed)
	}
	account.Password = hash

	store.commit(context, OpPasswordChanged, account.ID, dirtyAccounts)
	return ok(MsgPasswordChanged)
}

// # Administration

/*
DeleteUser removes a user's profile and account.

Description: The signed-in user and admins cannot be deleted.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: ErrDeleteSelf, ErrDeleteAdmin, ErrUserNotFound or a persistence failure
*/
func (store *Store) DeleteUser(context context.Context, userID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.session != nil && store.session.ID == userID {
		return ErrDeleteSelf
	}

	profile := store.findProfile(userID)
	account := store.findAccount(userID)
	if profile == nil && account == nil {
		return ErrUserNotFound
	}
	if profile != nil && profile.IsAdmin() {
		return ErrDeleteAdmin
	}

	store.profiles = slices.DeleteFunc(store.profiles, func(p *UserProfile) bool { return p.ID == userID })
	store.accounts = slices.DeleteFunc(store.accounts, func(a *Account) bool { return a.ID == userID })

	return store.commit(context, OpUserDeleted, userID, dirtyAccounts|dirtyProfiles)
}

// Users returns a copy of every profile in registration order.
func (store *Store) Users() []*UserProfile {
	store.mu.RLock()
	defer store.mu.RUnlock()

	users := make([]*UserProfile, len(store.profiles))
	for i, profile := range store.profiles {
		users[i] = profile.Clone()
	}
	return users
}

// TotalUsers returns the number of profiles.
func (store *Store) TotalUsers() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.profiles)
}

// NewUsersCount counts profiles that joined at or after now minus days.
func (store *Store) NewUsersCount(days int) int {
	store.mu.RLock()
	defer store.mu.RUnlock()

	cutoff := store.now().AddDate(0, 0, -days)
	count := 0
	for _, profile := range store.profiles {
		if !profile.JoinedAt.Before(cutoff) {
			count++
		}
	}
	return count
}

// # Internals

// wait sleeps for the configured latency unless context ends first.
func (store *Store) wait(context context.Context) error {
	if store.latency <= 0 {
		return nil
	}

	timer := time.NewTimer(store.latency)
	defer timer.Stop()

	select {
	case <-context.Done():
		return context.Err()
	case <-timer.C:
		return nil
	}
}

func (store *Store) findProfile(id string) *UserProfile {
	for _, profile := range store.profiles {
		if profile.ID == id {
			return profile
		}
	}
	return nil
}

func (store *Store) findUsername(username string) *UserProfile {
	for _, profile := range store.profiles {
		if profile.Username == username {
			return profile
		}
	}
	return nil
}

func (store *Store) findAccount(id string) *Account {
	for _, account := range store.accounts {
		if account.ID == id {
			return account
		}
	}
	return nil
}

// syncSessionProfile copies the session snapshot over its profile entry.
func (store *Store) syncSessionProfile() {
	for i, profile := range store.profiles {
		if profile.ID == store.session.ID {
			store.profiles[i] = store.session.Clone()
			return
		}
	}
}

// commit persists the touched collections and announces the change.
// Callers must hold the write lock.
func (store *Store) commit(context context.Context, op, id string, touched dirty) error {
	err := store.persist(context, touched)

	if store.publisher != nil {
		store.publisher.Publish(broadcast.Change{
			Store: broadcast.StoreSession,
			Op:    op,
			ID:    id,
			At:    store.now(),
		})
	}

	if err == nil {
		store.logger.Debug(op, slog.String("id", id))
	}
	return err
}

// persist writes every touched collection, attempting all of them. Failures
// are logged and joined; the in-memory state is kept either way.
func (store *Store) persist(context context.Context, touched dirty) error {
	var errs []error

	if touched&dirtyAccounts != 0 {
		if err := store.repository.SaveAccounts(context, store.accounts); err != nil {
			errs = append(errs, err)
		}
	}
	if touched&dirtyProfiles != 0 {
		if err := store.repository.SaveProfiles(context, store.profiles); err != nil {
			errs = append(errs, err)
		}
	}
	if touched&dirtySession != 0 {
		if err := store.repository.SaveSession(context, store.session); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		store.logger.Error("identity_persist_failed", slog.Any("error", err))
	}
	return err
}
