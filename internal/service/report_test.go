package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/cache"
	"github.com/forumkit/forumkit/internal/domain"
)

func newReportService(storage *MockStorage, c *MemCache) *Report {
	return NewReport(storage, &MockValidator{}, &MockRenderer{}, c)
}

func TestReport(t *testing.T) {
	ctx := context.Background()

	t.Run("FanOutToModerators", func(t *testing.T) {
		storage := &MockStorage{}
		storage.forumModeratorsFunc = func(domain.ForumId) ([]domain.UserId, error) {
			return []domain.UserId{10, 20, member.Id}, nil
		}
		storage.threadPostFunc = func(threadId domain.ThreadId, postId domain.PostId) (domain.Post, error) {
			return domain.Post{Id: postId, ThreadId: threadId, ForumId: 1, AuthorId: 777, Content: "<p>offending</p>"}, nil
		}
		memCache := NewMemCache()
		service := newReportService(storage, memCache)

		outcome, err := service.Report(ctx, member, testRef(), 55, "this is spam")
		require.NoError(t, err)
		assert.Equal(t, 2, outcome.Recipients, "the reporter is excluded from the fan-out")
		assert.False(t, outcome.NoRecipients())

		require.Len(t, storage.savedMessages, 2)
		first := storage.savedMessages[0]
		assert.Equal(t, member.Id, first.SenderId)
		assert.Equal(t, int64(10), first.ReceiverId)
		assert.Equal(t, "Complaint about the post #55", first.Topic)
		assert.Contains(t, first.Content, "this is spam")
		assert.Contains(t, first.Content, `<a href="/posts/55">Direct link to the post</a>`)
		assert.Contains(t, first.Content, "<blockquote><p>offending</p></blockquote>")
		assert.Equal(t, domain.MessageStatusRemoved, first.SenderStatus)
		assert.Equal(t, domain.MessageStatusNew, first.ReceiverStatus)

		deleted := memCache.deletedKeys()
		assert.Contains(t, deleted, cache.KeyUserNewMessages+"#10")
		assert.Contains(t, deleted, cache.KeyUserNewMessages+"#20")
		assert.NotContains(t, deleted, cache.KeyUserNewMessages+"#2", "the reporter keeps their indicator")
	})

	t.Run("NoRecipients", func(t *testing.T) {
		storage := &MockStorage{}
		storage.forumModeratorsFunc = func(domain.ForumId) ([]domain.UserId, error) {
			return []domain.UserId{member.Id}, nil
		}
		memCache := NewMemCache()
		service := newReportService(storage, memCache)

		outcome, err := service.Report(ctx, member, testRef(), 55, "this is spam")
		require.NoError(t, err, "a report with no one to notify is still acknowledged")
		assert.True(t, outcome.NoRecipients())
		assert.Empty(t, storage.savedMessages)
		assert.Empty(t, memCache.deletedKeys(), "nothing written, nothing invalidated")
	})

	t.Run("OwnPost", func(t *testing.T) {
		storage := &MockStorage{}
		storage.threadPostFunc = func(threadId domain.ThreadId, postId domain.PostId) (domain.Post, error) {
			return domain.Post{Id: postId, ThreadId: threadId, AuthorId: member.Id}, nil
		}
		service := newReportService(storage, NewMemCache())

		_, err := service.Report(ctx, member, testRef(), 55, "reporting myself")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindSelfReportForbidden))
	})

	t.Run("Guest", func(t *testing.T) {
		service := newReportService(&MockStorage{}, NewMemCache())

		_, err := service.Report(ctx, domain.Guest, testRef(), 55, "spam")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindAuthRequired))
	})

	t.Run("InvalidMessage", func(t *testing.T) {
		validator := &MockValidator{reportFunc: func(string) error {
			return apperr.Validation("too short")
		}}
		service := NewReport(&MockStorage{}, validator, &MockRenderer{}, NewMemCache())

		_, err := service.Report(ctx, member, testRef(), 55, "x")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidationFailed))
	})

	t.Run("SaveFailure", func(t *testing.T) {
		storage := &MockStorage{}
		storage.forumModeratorsFunc = func(domain.ForumId) ([]domain.UserId, error) {
			return []domain.UserId{10}, nil
		}
		storage.saveMessagesFunc = func([]domain.Message) error { return errors.New("db down") }
		memCache := NewMemCache()
		service := newReportService(storage, memCache)

		_, err := service.Report(ctx, member, testRef(), 55, "spam")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPersistenceFailed))
		assert.Empty(t, memCache.deletedKeys())
	})
}
