package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/cache"
	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/logger"
)

type VoteService interface {
	Cast(ctx context.Context, actor domain.Actor, postId domain.PostId, direction domain.VoteDirection) (domain.VoteResult, error)
}

type VoteStorage interface {
	Post(ctx context.Context, postId domain.PostId) (domain.Post, error)
	ThreadById(ctx context.Context, threadId domain.ThreadId) (domain.Thread, error)
	// ApplyVote creates, keeps or flips the (post, voter) thumb row and
	// adjusts the post counters in the same transaction.
	ApplyVote(ctx context.Context, postId domain.PostId, voterId domain.UserId, thumb int) (domain.VoteResult, error)
}

type Vote struct {
	storage VoteStorage
	limiter *voteLimiter
}

func NewVote(storage VoteStorage, c cache.Cache, cfg config.Public) *Vote {
	return &Vote{
		storage: storage,
		limiter: &voteLimiter{cache: c, limit: cfg.VotesPerHour, window: cfg.VoteWindow, now: time.Now},
	}
}

func (s *Vote) Cast(ctx context.Context, actor domain.Actor, postId domain.PostId, direction domain.VoteDirection) (domain.VoteResult, error) {
	if actor.Guest {
		return domain.VoteResult{}, apperr.AuthRequired("Please sign in to vote on this post.")
	}
	if !direction.Valid() {
		return domain.VoteResult{}, apperr.Validation("Unknown vote direction.")
	}

	post, err := s.storage.Post(ctx, postId)
	if err != nil {
		return domain.VoteResult{}, notFoundOr(err, msgPostNotFound)
	}
	thread, err := s.storage.ThreadById(ctx, post.ThreadId)
	if err != nil {
		return domain.VoteResult{}, notFoundOr(err, msgPostNotFound)
	}
	if thread.Locked {
		return domain.VoteResult{}, apperr.ThreadLocked(msgThreadLocked)
	}
	if post.AuthorId == actor.Id {
		return domain.VoteResult{}, apperr.SelfVote("You can not vote on your own post!")
	}

	count, err := s.limiter.check(ctx, actor.Id)
	if err != nil {
		return domain.VoteResult{}, err
	}

	result, err := s.storage.ApplyVote(ctx, post.Id, actor.Id, direction.Thumb())
	if err != nil {
		logger.Log.Error("vote failed", "post_id", post.Id, "voter_id", actor.Id, "error", err)
		return domain.VoteResult{}, apperr.Persistence("Error while voting on this post!")
	}

	// an idempotent re-vote is not a new event and keeps its slot
	if result.Changed {
		s.limiter.consume(ctx, actor.Id, count)
	}
	return result, nil
}

// voteLimiter is the cache-backed fixed-window counter behind the
// votes-per-hour limit. Best effort: counting is not strongly consistent
// under concurrent requests from the same user, which is acceptable for
// an anti-abuse limit.
type voteLimiter struct {
	cache  cache.Cache
	limit  int
	window time.Duration
	now    func() time.Time
}

// check returns the number of votes already recorded inside the current
// window, or RateLimited once the limit is reached. An expired window
// reads as empty.
func (l *voteLimiter) check(ctx context.Context, voterId domain.UserId) (int, error) {
	key := cache.UserVotesKey(voterId)
	elements, err := l.cache.GetElements(ctx, key)
	if err != nil {
		// an unreachable cache must not block voting
		logger.Log.Warn("vote limiter read failed", "key", key, "error", err)
		return 0, nil
	}
	if len(elements) == 0 {
		return 0, nil
	}

	expire, _ := strconv.ParseInt(elements["expire"], 10, 64)
	if expire < l.now().Unix() {
		return 0, nil
	}
	count, _ := strconv.Atoi(elements["count"])
	if count >= l.limit {
		return 0, apperr.RateLimited(fmt.Sprintf("%d votes per hour limit reached!", l.limit))
	}
	return count, nil
}

// consume records one more vote in the window; a fresh window also sets
// the expiry.
func (l *voteLimiter) consume(ctx context.Context, voterId domain.UserId, count int) {
	key := cache.UserVotesKey(voterId)
	var err error
	if count == 0 {
		err = l.cache.SetElements(ctx, key, map[string]string{
			"count":  "1",
			"expire": strconv.FormatInt(l.now().Add(l.window).Unix(), 10),
		}, l.window)
	} else {
		err = l.cache.SetElement(ctx, key, "count", strconv.Itoa(count+1))
	}
	if err != nil {
		logger.Log.Warn("vote limiter write failed", "key", key, "error", err)
	}
}
