// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/sakura/internal/platform/broadcast"
	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/storage"
	"github.com/taibuivan/sakura/pkg/slice"
	"github.com/taibuivan/sakura/pkg/uuidv7"
)

// Change operations published by the [Store].
const (
	OpComicRated      = "comic_rated"
	OpReactionToggled = "reaction_toggled"
	OpCommentAdded    = "comment_added"
	OpCommentLiked    = "comment_liked"
	OpSocialPurged    = "social_purged"
)

// # Store

// Store reads and writes social documents straight through [storage.Storage].
// A single lock serialises the read-modify-write cycles of this process.
type Store struct {
	mu        sync.Mutex
	storage   storage.Storage
	now       func() time.Time
	newID     uuidv7.Generator
	logger    *slog.Logger
	publisher broadcast.Publisher[broadcast.Change]
}

// Option configures a [Store].
type Option func(*Store)

// WithClock replaces the wall clock used for comment timestamps.
func WithClock(now func() time.Time) Option {
	return func(store *Store) { store.now = now }
}

// WithIDs replaces the comment id generator.
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

// NewStore creates a social [Store] on top of backend.
func NewStore(backend storage.Storage, options ...Option) *Store {
	store := &Store{
		storage: backend,
		now:     time.Now,
		newID:   uuidv7.New,
		logger:  slog.Default(),
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// # Ratings

/*
Rate records the stars userID gives comicID, replacing an earlier rating.

Parameters:
  - context: context.Context
  - userID: string
  - comicID: string
  - stars: int (MinStars to MaxStars)

Returns:
  - error: ErrInvalidStars or a persistence failure
*/
func (store *Store) Rate(context context.Context, userID, comicID string, stars int) error {
	if stars < MinStars || stars > MaxStars {
		return ErrInvalidStars
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	key := constants.PrefixUserRatings + userID
	ratings := readDocument[Ratings](context, store, key)
	if ratings == nil {
		ratings = Ratings{}
	}
	ratings[comicID] = stars

	return store.write(context, key, ratings, OpComicRated, comicID)
}

// UserRating returns the stars userID gave comicID, or 0 when unrated.
func (store *Store) UserRating(context context.Context, userID, comicID string) int {
	store.mu.Lock()
	defer store.mu.Unlock()

	ratings := readDocument[Ratings](context, store, constants.PrefixUserRatings+userID)
	return ratings[comicID]
}

/*
Community averages every user's stars for comicID.

Description: Scans every per-user rating document. Unreadable documents
are skipped.

Returns:
  - CommunityRating: Zero when nobody rated the comic
  - error: Failure to list the rating keys
*/
func (store *Store) Community(context context.Context, comicID string) (CommunityRating, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	keys, err := store.storage.Keys(context, constants.PrefixUserRatings)
	if err != nil {
		return CommunityRating{}, fmt.Errorf("social_ratings_list_failed: %w", err)
	}

	var votes []int
	for _, key := range keys {
		ratings := readDocument[Ratings](context, store, key)
		if stars, ok := ratings[comicID]; ok {
			votes = append(votes, stars)
		}
	}

	if len(votes) == 0 {
		return CommunityRating{}, nil
	}

	sum := slice.Reduce(votes, 0, func(total, stars int) int { return total + stars })
	return CommunityRating{
		Average: float64(sum) / float64(len(votes)),
		Votes:   len(votes),
	}, nil
}

// # Reactions

// Reactions returns the counters of comicID, starting from [DefaultReactions].
func (store *Store) Reactions(context context.Context, comicID string) Reactions {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.readReactions(context)[comicID].normalize()
}

/*
ToggleReaction adds or removes userID from one counter of comicID.

Description: A user already counted is removed and the count decremented;
otherwise the user is added and the count incremented.

Returns:
  - Reactions: Every counter of the comic after the toggle
  - error: ErrUnknownReaction or a persistence failure
*/
func (store *Store) ToggleReaction(context context.Context, userID, comicID string, kind ReactionKind) (Reactions, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownReaction
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	all := store.readReactions(context)
	reactions := all[comicID].normalize()

	reaction := reactions[kind]
	if slices.Contains(reaction.Users, userID) {
		reaction.Users = slices.DeleteFunc(reaction.Users, func(id string) bool { return id == userID })
		reaction.Count = max(reaction.Count-1, 0)
	} else {
		reaction.Users = append(reaction.Users, userID)
		reaction.Count++
	}
	all[comicID] = reactions

	if err := store.write(context, constants.KeyReactions, all, OpReactionToggled, comicID); err != nil {
		return nil, err
	}
	return reactions, nil
}

// # Comments

/*
AddComment prepends a comment to the thread of comicID.

Parameters:
  - context: context.Context
  - comicID: string
  - author: Author
  - content: string (trimmed before storing)

Returns:
  - *Comment: The stored comment
  - error: ErrEmptyComment, ErrCommentTooLong or a persistence failure
*/
func (store *Store) AddComment(context context.Context, comicID string, author Author, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	comment := &Comment{
		ID:        store.newID(),
		UserID:    author.UserID,
		Username:  author.Username,
		Avatar:    author.Avatar,
		Content:   content,
		CreatedAt: store.now(),
		LikedBy:   []string{},
	}

	threads := store.readComments(context)
	threads[comicID] = append([]*Comment{comment}, threads[comicID]...)

	if err := store.write(context, constants.KeyComments, threads, OpCommentAdded, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

/*
ToggleLike adds or removes userID from the likes of one comment.

Returns:
  - *Comment: The comment after the toggle
  - error: ErrCommentNotFound or a persistence failure
*/
func (store *Store) ToggleLike(context context.Context, userID, comicID, commentID string) (*Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	threads := store.readComments(context)
	index := slices.IndexFunc(threads[comicID], func(c *Comment) bool { return c.ID == commentID })
	if index < 0 {
		return nil, ErrCommentNotFound
	}

	comment := threads[comicID][index]
	if comment.IsLikedBy(userID) {
		comment.LikedBy = slices.DeleteFunc(comment.LikedBy, func(id string) bool { return id == userID })
		comment.Likes = max(comment.Likes-1, 0)
	} else {
		comment.LikedBy = append(comment.LikedBy, userID)
		comment.Likes++
	}

	if err := store.write(context, constants.KeyComments, threads, OpCommentLiked, commentID); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments returns the thread of comicID sorted by order. Best sorts by likes,
// keeping the stored newest-first order among equal counts.
func (store *Store) Comments(context context.Context, comicID string, order Order) []*Comment {
	store.mu.Lock()
	defer store.mu.Unlock()

	thread := store.readComments(context)[comicID]
	if thread == nil {
		return []*Comment{}
	}

	switch order {
	case OrderNewest:
		slices.SortStableFunc(thread, func(a, b *Comment) int { return b.CreatedAt.Compare(a.CreatedAt) })
	case OrderOldest:
		slices.SortStableFunc(thread, func(a, b *Comment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	default:
		slices.SortStableFunc(thread, func(a, b *Comment) int { return cmp.Compare(b.Likes, a.Likes) })
	}
	return thread
}

// # Cleanup

// PurgeComic removes the reactions and comments of a deleted comic. Ratings
// live in per-user documents and stay as they are. The catalogue service
// calls it as part of deleting a comic.
func (store *Store) PurgeComic(context context.Context, comicID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	var errs []error

	reactions := store.readReactions(context)
	if _, ok := reactions[comicID]; ok {
		delete(reactions, comicID)
		errs = append(errs, store.write(context, constants.KeyReactions, reactions, OpSocialPurged, comicID))
	}

	threads := store.readComments(context)
	if _, ok := threads[comicID]; ok {
		delete(threads, comicID)
		errs = append(errs, store.write(context, constants.KeyComments, threads, OpSocialPurged, comicID))
	}

	return errors.Join(errs...)
}

// # Internals

// readDocument decodes key into a fresh T. A missing or malformed document
// yields the zero value.
func readDocument[T any](context context.Context, store *Store, key string) T {
	var document T
	err := storage.GetJSON(context, store.storage, key, &document)
	if err == nil {
		return document
	}

	if !errors.Is(err, storage.ErrNotFound) {
		store.logger.Warn("social_document_unreadable", slog.String("key", key), slog.Any("error", err))
	}
	var empty T
	return empty
}

func (store *Store) readReactions(context context.Context) map[string]Reactions {
	all := readDocument[map[string]Reactions](context, store, constants.KeyReactions)
	if all == nil {
		all = map[string]Reactions{}
	}
	return all
}

func (store *Store) readComments(context context.Context) map[string][]*Comment {
	threads := readDocument[map[string][]*Comment](context, store, constants.KeyComments)
	if threads == nil {
		threads = map[string][]*Comment{}
	}
	for comicID, thread := range threads {
		threads[comicID] = slices.DeleteFunc(thread, func(c *Comment) bool { return c == nil })
		for _, comment := range threads[comicID] {
			if comment.LikedBy == nil {
				comment.LikedBy = []string{}
			}
		}
	}
	return threads
}

// write encodes value under key and announces the change.
func (store *Store) write(context context.Context, key string, value any, op, id string) error {
	if err := storage.SetJSON(context, store.storage, key, value); err != nil {
		store.logger.Error("social_persist_failed", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("social_persist_failed: %w", err)
	}

	if store.publisher != nil {
		store.publisher.Publish(broadcast.Change{
			Store: broadcast.StoreSocial,
			Op:    op,
			ID:    id,
			At:    store.now(),
		})
	}

	store.logger.Debug(op, slog.String("id", id))
	return nil
}
