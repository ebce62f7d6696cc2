package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/cache"
	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/logger"
	"github.com/forumkit/forumkit/internal/textproc"
)

type ReportService interface {
	Report(ctx context.Context, actor domain.Actor, ref ThreadRef, postId domain.PostId, message string) (domain.ReportOutcome, error)
}

type ReportStorage interface {
	ResolverStorage
	ThreadPost(ctx context.Context, threadId domain.ThreadId, postId domain.PostId) (domain.Post, error)
	ForumModerators(ctx context.Context, forumId domain.ForumId) ([]domain.UserId, error)
	SaveMessages(ctx context.Context, messages []domain.Message) error
}

type ReportValidator interface {
	Report(message string) error
}

// Sanitizer cleans the free-form report text before it is embedded into
// moderation messages.
type Sanitizer interface {
	Sanitize(raw string) string
}

type Report struct {
	resolver
	storage   ReportStorage
	validator ReportValidator
	sanitizer Sanitizer
	cache     cache.Cache
}

func NewReport(storage ReportStorage, validator ReportValidator, sanitizer Sanitizer, c cache.Cache) *Report {
	return &Report{resolver{storage}, storage, validator, sanitizer, c}
}

// Report fans the complaint out to the forum's moderators, one message
// row per moderator, excluding the reporter. With no one else to notify
// it returns a NoRecipients outcome and writes nothing.
func (s *Report) Report(ctx context.Context, actor domain.Actor, ref ThreadRef, postId domain.PostId, message string) (domain.ReportOutcome, error) {
	if actor.Guest {
		return domain.ReportOutcome{}, apperr.AuthRequired("Please sign in to report the post.")
	}

	_, forum, thread, err := s.thread(ctx, actor, ref, msgPostNotFound)
	if err != nil {
		return domain.ReportOutcome{}, err
	}
	post, err := s.storage.ThreadPost(ctx, thread.Id, postId)
	if err != nil {
		return domain.ReportOutcome{}, notFoundOr(err, msgPostNotFound)
	}

	if post.AuthorId == actor.Id {
		return domain.ReportOutcome{}, apperr.SelfReport("You can not report your own post. Please contact the administrator or moderators if you have got any concerns regarding your post.")
	}
	if err := s.validator.Report(message); err != nil {
		return domain.ReportOutcome{}, err
	}

	moderators, err := s.storage.ForumModerators(ctx, forum.Id)
	if err != nil {
		return domain.ReportOutcome{}, err
	}

	now := time.Now()
	var batch []domain.Message
	for _, moderatorId := range moderators {
		if moderatorId == actor.Id {
			continue
		}
		batch = append(batch, domain.Message{
			SenderId:       actor.Id,
			ReceiverId:     moderatorId,
			Topic:          fmt.Sprintf("Complaint about the post #%d", post.Id),
			Content:        s.composeBody(message, post),
			SenderStatus:   domain.MessageStatusRemoved,
			ReceiverStatus: domain.MessageStatusNew,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	if len(batch) == 0 {
		return domain.ReportOutcome{Recipients: 0}, nil
	}

	if err := s.storage.SaveMessages(ctx, batch); err != nil {
		logger.Log.Error("report fan-out failed", "post_id", post.Id, "reporter_id", actor.Id, "error", err)
		return domain.ReportOutcome{}, apperr.Persistence("Sorry! There was an error while notifying the moderation team. Contact administrator about this problem.")
	}

	// only the notified moderators lose their new-messages indicator
	for _, m := range batch {
		element := strconv.FormatInt(m.ReceiverId, 10)
		if err := s.cache.DeleteElement(ctx, cache.KeyUserNewMessages, element); err != nil {
			logger.Log.Warn("cache invalidation failed", "key", cache.KeyUserNewMessages, "element", element, "error", err)
		}
	}
	return domain.ReportOutcome{Recipients: len(batch)}, nil
}

// composeBody embeds the report text, a permalink to the post and a
// quoted copy of the post content. The post content is already sanitized
// HTML at rest.
func (s *Report) composeBody(message string, post domain.Post) string {
	return s.sanitizer.Sanitize(message) + textproc.Divider +
		fmt.Sprintf(`<a href="/posts/%d">Direct link to the post</a>`, post.Id) + textproc.Divider +
		"<strong>Post contents</strong><br><blockquote>" + post.Content + "</blockquote>"
}
