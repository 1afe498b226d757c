// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, storage keys and the HTTP header names
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Storage Keys: The key layout shared by every storage backend.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "sakura-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Storage Keys
//
// Every backend stores the same flat key space. The names match the keys the
// web client has always written so exported data stays interchangeable.

const (
	// KeyComics holds the full comic collection.
	KeyComics = "sakura-comics"

	// KeyComicsVersion gates a reset to the built-in dataset on schema change.
	KeyComicsVersion = "sakura-comics-version"

	// ComicsDataVersion is the schema version written next to [KeyComics].
	ComicsDataVersion = "2.0"

	// KeyProfiles holds every user profile.
	KeyProfiles = "sakura-users"

	// KeyAccounts holds every credential record.
	KeyAccounts = "sakura-accounts"

	// KeySession holds the signed current-session token.
	KeySession = "sakura-user"

	// KeyReaderIndex lists chapters published through the admin editor.
	KeyReaderIndex = "manga-chapters"

	// KeyReactions maps comic ids to reaction counters.
	KeyReactions = "sakura-reactions"

	// KeyComments maps comic ids to comment threads.
	KeyComments = "sakura-comments"

	// PrefixUserRatings namespaces per-user rating maps ("userRatings_{userID}").
	PrefixUserRatings = "userRatings_"

	// PrefixChapterImages starts every chapter page artifact key.
	PrefixChapterImages = "chapter-"

	// SuffixChapterImages ends every chapter page artifact key.
	SuffixChapterImages = "-images"
)

// # Redis Prefixes

const (
	// RedisPrefixStorage namespaces the key/value backend inside a shared Redis.
	RedisPrefixStorage = "sakura:"
)
