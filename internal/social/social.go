// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package social implements reader interactions on a comic: star ratings,
emoji reactions and comment threads.

# Persistence

Each concern owns its keys in the shared key/value storage:

  - Ratings: one map per user under "userRatings_{userID}" (comic id to stars).
  - Reactions: one map under "sakura-reactions" (comic id to six counters).
  - Comments: one map under "sakura-comments" (comic id to a thread, newest first).

A malformed document reads as empty. Every mutation rewrites its whole key.
*/
package social

import (
	"errors"
	"slices"
	"time"
)

// # Ratings

// Star bounds accepted by [Store.Rate].
const (
	MinStars = 1
	MaxStars = 5
)

// Ratings maps comic ids to the stars one user gave.
type Ratings map[string]int

// CommunityRating summarises every user's stars for one comic.
type CommunityRating struct {
	Average float64 `json:"average"`
	Votes   int     `json:"votes"`
}

// # Reactions

// ReactionKind names one of the fixed reaction counters.
type ReactionKind string

const (
	ReactionUpvote    ReactionKind = "upvote"
	ReactionFunny     ReactionKind = "funny"
	ReactionLove      ReactionKind = "love"
	ReactionSurprised ReactionKind = "surprised"
	ReactionAngry     ReactionKind = "angry"
	ReactionSad       ReactionKind = "sad"
)

// ReactionKinds lists every kind in display order.
var ReactionKinds = []ReactionKind{
	ReactionUpvote, ReactionFunny, ReactionLove,
	ReactionSurprised, ReactionAngry, ReactionSad,
}

// IsValid reports whether k is one of [ReactionKinds].
func (k ReactionKind) IsValid() bool {
	return slices.Contains(ReactionKinds, k)
}

// Reaction is one counter and the users who contributed to it. Count may
// exceed len(Users) because counters start from display values.
type Reaction struct {
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// Reactions holds every counter of one comic.
type Reactions map[ReactionKind]*Reaction

// DefaultReactions returns the counters a comic shows before anyone reacts.
func DefaultReactions() Reactions {
	seed := map[ReactionKind]int{
		ReactionUpvote:    49,
		ReactionFunny:     11,
		ReactionLove:      188,
		ReactionSurprised: 6,
		ReactionAngry:     2,
		ReactionSad:       3,
	}

	reactions := make(Reactions, len(seed))
	for kind, count := range seed {
		reactions[kind] = &Reaction{Count: count, Users: []string{}}
	}
	return reactions
}

// Total returns the sum of every counter.
func (r Reactions) Total() int {
	total := 0
	for _, reaction := range r {
		total += reaction.Count
	}
	return total
}

// normalize fills missing kinds from the defaults and drops unknown ones.
func (r Reactions) normalize() Reactions {
	defaults := DefaultReactions()
	for _, kind := range ReactionKinds {
		if current, ok := r[kind]; ok && current != nil {
			if current.Users == nil {
				current.Users = []string{}
			}
			defaults[kind] = current
		}
	}
	return defaults
}

// # Comments

// Author identifies who wrote a comment.
type Author struct {
	UserID   string
	Username string
	Avatar   string
}

// Comment is one entry of a comic thread.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	LikedBy   []string  `json:"likedBy"`
}

// IsLikedBy reports whether userID liked the comment.
func (c *Comment) IsLikedBy(userID string) bool {
	return slices.Contains(c.LikedBy, userID)
}

// Order selects how [Store.Comments] sorts a thread.
type Order string

const (
	OrderBest   Order = "best"
	OrderNewest Order = "newest"
	OrderOldest Order = "oldest"
)

// ParseOrder maps a query value to an [Order]. Unknown values read as best.
func ParseOrder(value string) Order {
	switch Order(value) {
	case OrderNewest, OrderOldest:
		return Order(value)
	default:
		return OrderBest
	}
}

// MaxCommentLength bounds the trimmed comment body.
const MaxCommentLength = 2000

// # Domain Errors

var (
	// ErrInvalidStars is returned for a rating outside [MinStars, MaxStars].
	ErrInvalidStars = errors.New("social: stars out of range")

	// ErrUnknownReaction is returned for a kind outside [ReactionKinds].
	ErrUnknownReaction = errors.New("social: unknown reaction")

	// ErrEmptyComment is returned when the trimmed comment body is empty.
	ErrEmptyComment = errors.New("social: empty comment")

	// ErrCommentTooLong is returned when the comment exceeds [MaxCommentLength].
	ErrCommentTooLong = errors.New("social: comment too long")

	// ErrCommentNotFound is returned when liking an unknown comment.
	ErrCommentNotFound = errors.New("social: comment not found")
)
