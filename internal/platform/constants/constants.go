// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and confirmation-code throttling.
  - Catalog: Domain-wide bounds for titles and reviews.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "revuo-api"
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

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "revuo.app"

	// ConfirmationAttemptLimit is the number of failed confirmation-code
	// exchanges allowed per username within [ConfirmationAttemptWindow].
	ConfirmationAttemptLimit = 5

	// ConfirmationAttemptWindow is the sliding window for the failed-attempt
	// counter kept in Redis.
	ConfirmationAttemptWindow = 15 * time.Minute
)

// # Identity Constraints

const (
	// UsernameMaxLen is the maximum username length.
	UsernameMaxLen = 150

	// EmailMaxLen is the maximum email length.
	EmailMaxLen = 254

	// ReservedUsername is the path alias for "the calling user" and can
	// never be registered as a real account name.
	ReservedUsername = "me"
)

// # Catalog Bounds

const (
	// NameMaxLen bounds title, category, and genre names.
	NameMaxLen = 256

	// SlugMaxLen bounds category and genre slugs.
	SlugMaxLen = 50

	// TitleMinYear is the project-wide lower bound for a title's year.
	// The upper bound is always the current calendar year.
	TitleMinYear = 1000

	// ScoreMin and ScoreMax bound review scores (inclusive).
	ScoreMin = 1
	ScoreMax = 10
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixCodeAttempts = "auth:code_attempts:"
)
