// Package cache is the key-value component backing aggregate-count
// caching and the vote rate limiter. Keys hold either a scalar string or
// a structured value addressed per element. Invalidation after a commit
// is best effort: failures are logged by callers, never propagated.
package cache

import (
	"context"
	"strconv"
	"time"
)

// Well-known keys. Structured keys address per-user elements by the
// decimal user id.
const (
	KeyForumThreadsCount = "forum.threadscount"
	KeyForumPostsCount   = "forum.postscount"
	KeyUserPostsCount    = "user.postscount"
	KeyUserThreadsCount  = "user.threadscount"
	KeyUserNewMessages   = "user.newmessages"

	userVotesPrefix = "user.votes."
)

// UserVotesKey holds the vote rate-limit window for one user, with
// "count" and "expire" elements.
func UserVotesKey(userId int64) string {
	return userVotesPrefix + strconv.FormatInt(userId, 10)
}

type Cache interface {
	// Scalar ops. Get reports found=false for a missing key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Element ops over a structured value.
	GetElements(ctx context.Context, key string) (map[string]string, error)
	GetElement(ctx context.Context, key, element string) (value string, found bool, err error)
	SetElements(ctx context.Context, key string, elements map[string]string, ttl time.Duration) error
	SetElement(ctx context.Context, key, element, value string) error
	DeleteElement(ctx context.Context, key, element string) error
}
