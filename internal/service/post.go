package service

import (
	"context"
	"strconv"

	"github.com/forumkit/forumkit/internal/access"
	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/cache"
	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/logger"
	"github.com/forumkit/forumkit/internal/textproc"
)

const msgPostNotFound = "Sorry! We can not find the post you are looking for."
const msgThreadLocked = "This thread is locked."

type PostService interface {
	Reply(ctx context.Context, actor domain.Actor, ref ThreadRef, content string, quotedPostId *domain.PostId, quoteExcerpt string) (domain.ReplyResult, error)
	Edit(ctx context.Context, actor domain.Actor, ref ThreadRef, postId domain.PostId, content string, topic *string) (domain.Post, error)
	Preview(raw string) string
	Show(ctx context.Context, actor domain.Actor, postId domain.PostId) (domain.PostLocation, error)
}

type PostStorage interface {
	ResolverStorage
	ThreadById(ctx context.Context, threadId domain.ThreadId) (domain.Thread, error)
	Post(ctx context.Context, postId domain.PostId) (domain.Post, error)
	ThreadPost(ctx context.Context, threadId domain.ThreadId, postId domain.PostId) (domain.Post, error)
	LatestPost(ctx context.Context, threadId domain.ThreadId) (domain.Post, error)
	OpeningPostId(ctx context.Context, threadId domain.ThreadId) (domain.PostId, error)
	InsertReply(ctx context.Context, data domain.ReplyData) (domain.Post, error)
	MergeIntoPost(ctx context.Context, postId domain.PostId, addition string) (domain.Post, error)
	UpdatePost(ctx context.Context, postId domain.PostId, content string, topic *string) (domain.Post, error)
	CountEarlierPosts(ctx context.Context, threadId domain.ThreadId, postId domain.PostId) (int64, error)
}

type PostValidator interface {
	Topic(topic string) error
	Content(content string) error
}

// Quoter builds the blockquote that seeds a quoted reply.
type Quoter interface {
	Renderer
	Quote(quotedContent, excerpt string) string
}

type Post struct {
	resolver
	storage   PostStorage
	validator PostValidator
	renderer  Quoter
	checker   access.Checker
	cache     cache.Cache
	cfg       config.Public
}

func NewPost(storage PostStorage, validator PostValidator, renderer Quoter, checker access.Checker, c cache.Cache, cfg config.Public) *Post {
	return &Post{resolver{storage}, storage, validator, renderer, checker, c, cfg}
}

func (s *Post) Reply(ctx context.Context, actor domain.Actor, ref ThreadRef, content string, quotedPostId *domain.PostId, quoteExcerpt string) (domain.ReplyResult, error) {
	if !s.checker.Can(ctx, actor, domain.CapCreatePost, nil) {
		if actor.Guest {
			return domain.ReplyResult{}, apperr.AuthRequired("Please sign in to post a reply.")
		}
		return domain.ReplyResult{}, apperr.PermissionDenied("Sorry! You do not have the required permission to perform this action.")
	}

	_, forum, thread, err := s.thread(ctx, actor, ref, msgThreadNotFound)
	if err != nil {
		return domain.ReplyResult{}, err
	}
	if err := s.lockGate(ctx, actor, &thread); err != nil {
		return domain.ReplyResult{}, err
	}

	if err := s.validator.Content(content); err != nil {
		return domain.ReplyResult{}, err
	}

	rendered := s.renderer.Render(content)
	if quotedPostId != nil {
		// a quote id that resolves to nothing is ignored, not an error
		if quoted, err := s.storage.ThreadPost(ctx, thread.Id, *quotedPostId); err == nil {
			rendered = s.renderer.Quote(quoted.Content, quoteExcerpt) + rendered
		}
	}

	result, err := s.persistReply(ctx, actor, forum, thread, rendered)
	if err != nil {
		logger.Log.Error("reply failed", "thread_id", thread.Id, "author_id", actor.Id, "error", err)
		return domain.ReplyResult{}, apperr.Persistence("Sorry! There was an error while adding the reply. Contact administrator about this problem.")
	}

	s.invalidateAfterReply(ctx, actor.Id)
	return result, nil
}

// persistReply applies the consecutive-reply merge rule: when the most
// recent post of the thread belongs to the same author, the new content
// is appended to it behind a divider instead of creating a row.
func (s *Post) persistReply(ctx context.Context, actor domain.Actor, forum domain.Forum, thread domain.Thread, rendered string) (domain.ReplyResult, error) {
	latest, err := s.storage.LatestPost(ctx, thread.Id)
	if err == nil && latest.AuthorId == actor.Id {
		merged, err := s.storage.MergeIntoPost(ctx, latest.Id, textproc.Divider+rendered)
		if err != nil {
			return domain.ReplyResult{}, err
		}
		return domain.ReplyResult{Post: merged, Merged: true}, nil
	}
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return domain.ReplyResult{}, err
	}

	post, err := s.storage.InsertReply(ctx, domain.ReplyData{
		ThreadId: thread.Id,
		ForumId:  forum.Id,
		AuthorId: actor.Id,
		Content:  rendered,
	})
	if err != nil {
		return domain.ReplyResult{}, err
	}
	return domain.ReplyResult{Post: post}, nil
}

func (s *Post) invalidateAfterReply(ctx context.Context, authorId domain.UserId) {
	if err := s.cache.Delete(ctx, cache.KeyForumPostsCount); err != nil {
		logger.Log.Warn("cache invalidation failed", "key", cache.KeyForumPostsCount, "error", err)
	}
	element := strconv.FormatInt(authorId, 10)
	if err := s.cache.DeleteElement(ctx, cache.KeyUserPostsCount, element); err != nil {
		logger.Log.Warn("cache invalidation failed", "key", cache.KeyUserPostsCount, "error", err)
	}
}

func (s *Post) Edit(ctx context.Context, actor domain.Actor, ref ThreadRef, postId domain.PostId, content string, topic *string) (domain.Post, error) {
	_, _, thread, err := s.thread(ctx, actor, ref, msgPostNotFound)
	if err != nil {
		return domain.Post{}, err
	}
	if err := s.lockGate(ctx, actor, &thread); err != nil {
		return domain.Post{}, err
	}

	post, err := s.storage.ThreadPost(ctx, thread.Id, postId)
	if err != nil {
		return domain.Post{}, notFoundOr(err, msgPostNotFound)
	}

	if !s.checker.Can(ctx, actor, domain.CapUpdateOwnPost, &post) && !s.checker.Can(ctx, actor, domain.CapUpdatePost, &post) {
		if actor.Guest {
			return domain.Post{}, apperr.AuthRequired("Please sign in to edit the post.")
		}
		return domain.Post{}, apperr.PermissionDenied("Sorry! You do not have the required permission to perform this action.")
	}

	if err := s.validator.Content(content); err != nil {
		return domain.Post{}, err
	}

	// the topic travels with the edit only for the opening post,
	// derived as the lowest id in the thread
	openingId, err := s.storage.OpeningPostId(ctx, thread.Id)
	if err != nil {
		return domain.Post{}, err
	}
	if post.Id != openingId {
		topic = nil
	} else if topic != nil {
		if err := s.validator.Topic(*topic); err != nil {
			return domain.Post{}, err
		}
	}

	updated, err := s.storage.UpdatePost(ctx, post.Id, s.renderer.Render(content), topic)
	if err != nil {
		logger.Log.Error("post edit failed", "post_id", post.Id, "actor_id", actor.Id, "error", err)
		return domain.Post{}, apperr.Persistence("Sorry! There was an error while updating the post. Contact administrator about this problem.")
	}
	return updated, nil
}

// Preview is the pure transformation used when the caller asks for a
// rendered preview instead of a save.
func (s *Post) Preview(raw string) string {
	return s.renderer.Render(raw)
}

// Show resolves a post permalink to its thread location, including the
// page the post lands on.
func (s *Post) Show(ctx context.Context, actor domain.Actor, postId domain.PostId) (domain.PostLocation, error) {
	post, err := s.storage.Post(ctx, postId)
	if err != nil {
		return domain.PostLocation{}, notFoundOr(err, msgPostNotFound)
	}
	thread, err := s.storage.ThreadById(ctx, post.ThreadId)
	if err != nil {
		return domain.PostLocation{}, notFoundOr(err, msgPostNotFound)
	}

	earlier, err := s.storage.CountEarlierPosts(ctx, thread.Id, post.Id)
	if err != nil {
		return domain.PostLocation{}, err
	}

	return domain.PostLocation{
		CategoryId: thread.CategoryId,
		ForumId:    thread.ForumId,
		ThreadId:   thread.Id,
		ThreadSlug: thread.Slug,
		PostId:     post.Id,
		Page:       int(earlier)/s.cfg.PostsPerPage + 1,
	}, nil
}

// lockGate rejects writes into a locked thread unless the actor may
// update the thread itself. Signaled as an expected state, not an error.
func (s *Post) lockGate(ctx context.Context, actor domain.Actor, thread *domain.Thread) error {
	if thread.Locked && !s.checker.Can(ctx, actor, domain.CapUpdateThread, thread) {
		return apperr.ThreadLocked(msgThreadLocked)
	}
	return nil
}
