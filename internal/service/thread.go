package service

import (
	"context"
	"strconv"

	"github.com/gosimple/slug"

	"github.com/forumkit/forumkit/internal/access"
	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/cache"
	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/logger"
)

const msgThreadNotFound = "Sorry! We can not find the thread you are looking for."

type ThreadService interface {
	Create(ctx context.Context, actor domain.Actor, req ThreadCreationRequest) (domain.Thread, error)
	Get(ctx context.Context, actor domain.Actor, ref ThreadRef, page int) (domain.ThreadPage, error)
	TogglePin(ctx context.Context, actor domain.Actor, ref ThreadRef) (bool, error)
	ToggleLock(ctx context.Context, actor domain.Actor, ref ThreadRef) (bool, error)
}

type ThreadCreationRequest struct {
	CategoryId domain.CategoryId
	ForumId    domain.ForumId
	Name       string
	Content    string
}

type ThreadStorage interface {
	ResolverStorage
	CreateThread(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, error)
	ThreadPosts(ctx context.Context, threadId domain.ThreadId, page, perPage int) ([]domain.Post, error)
	BumpThreadViews(ctx context.Context, threadId domain.ThreadId) error
	SetThreadPinned(ctx context.Context, threadId domain.ThreadId, pinned bool) error
	SetThreadLocked(ctx context.Context, threadId domain.ThreadId, locked bool) error
}

type ThreadValidator interface {
	Topic(topic string) error
	Content(content string) error
}

// Renderer transforms raw submitted content into the sanitized HTML that
// gets stored and displayed.
type Renderer interface {
	Render(raw string) string
}

type Thread struct {
	resolver
	storage   ThreadStorage
	validator ThreadValidator
	renderer  Renderer
	checker   access.Checker
	cache     cache.Cache
	cfg       config.Public
}

func NewThread(storage ThreadStorage, validator ThreadValidator, renderer Renderer, checker access.Checker, c cache.Cache, cfg config.Public) *Thread {
	return &Thread{resolver{storage}, storage, validator, renderer, checker, c, cfg}
}

func (s *Thread) Create(ctx context.Context, actor domain.Actor, req ThreadCreationRequest) (domain.Thread, error) {
	if !s.checker.Can(ctx, actor, domain.CapCreateThread, nil) {
		if actor.Guest {
			return domain.Thread{}, apperr.AuthRequired("Please sign in to create a new thread.")
		}
		return domain.Thread{}, apperr.PermissionDenied("Sorry! You do not have the required permission to perform this action.")
	}

	_, forum, err := s.forum(ctx, actor, req.CategoryId, req.ForumId, "", msgForumNotFound)
	if err != nil {
		return domain.Thread{}, err
	}

	if err := s.validator.Topic(req.Name); err != nil {
		return domain.Thread{}, err
	}
	if err := s.validator.Content(req.Content); err != nil {
		return domain.Thread{}, err
	}

	thread, err := s.storage.CreateThread(ctx, domain.ThreadCreationData{
		CategoryId: forum.CategoryId,
		ForumId:    forum.Id,
		AuthorId:   actor.Id,
		Name:       req.Name,
		Slug:       slug.Make(req.Name),
		Content:    s.renderer.Render(req.Content),
	})
	if err != nil {
		logger.Log.Error("thread creation failed", "forum_id", forum.Id, "author_id", actor.Id, "error", err)
		return domain.Thread{}, apperr.Persistence("Sorry! There was an error while creating the thread. Contact administrator about this problem.")
	}

	s.invalidateAfterCreate(ctx, actor.Id)
	return thread, nil
}

// cache invalidation is best effort, after commit; a failure leaves a
// stale entry until its natural expiry
func (s *Thread) invalidateAfterCreate(ctx context.Context, authorId domain.UserId) {
	for _, key := range []string{cache.KeyForumThreadsCount, cache.KeyForumPostsCount} {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Log.Warn("cache invalidation failed", "key", key, "error", err)
		}
	}
	element := strconv.FormatInt(authorId, 10)
	for _, key := range []string{cache.KeyUserPostsCount, cache.KeyUserThreadsCount} {
		if err := s.cache.DeleteElement(ctx, key, element); err != nil {
			logger.Log.Warn("cache invalidation failed", "key", key, "error", err)
		}
	}
}

func (s *Thread) Get(ctx context.Context, actor domain.Actor, ref ThreadRef, page int) (domain.ThreadPage, error) {
	category, forum, thread, err := s.thread(ctx, actor, ref, msgThreadNotFound)
	if err != nil {
		return domain.ThreadPage{}, err
	}

	page = max(1, page)
	posts, err := s.storage.ThreadPosts(ctx, thread.Id, page, s.cfg.PostsPerPage)
	if err != nil {
		return domain.ThreadPage{}, err
	}

	// views counter is display-only; never fail the read over it
	if err := s.storage.BumpThreadViews(ctx, thread.Id); err != nil {
		logger.Log.Warn("views bump failed", "thread_id", thread.Id, "error", err)
	} else {
		thread.Views++
	}

	return domain.ThreadPage{Category: category, Forum: forum, Thread: thread, Posts: posts, Page: page}, nil
}

func (s *Thread) TogglePin(ctx context.Context, actor domain.Actor, ref ThreadRef) (bool, error) {
	thread, err := s.updatableThread(ctx, actor, ref)
	if err != nil {
		return false, err
	}

	pinned := !thread.Pinned
	if err := s.storage.SetThreadPinned(ctx, thread.Id, pinned); err != nil {
		logger.Log.Error("pin toggle failed", "thread_id", thread.Id, "error", err)
		return false, apperr.Persistence("Sorry! There was an error while updating the thread.")
	}
	return pinned, nil
}

func (s *Thread) ToggleLock(ctx context.Context, actor domain.Actor, ref ThreadRef) (bool, error) {
	thread, err := s.updatableThread(ctx, actor, ref)
	if err != nil {
		return false, err
	}

	locked := !thread.Locked
	if err := s.storage.SetThreadLocked(ctx, thread.Id, locked); err != nil {
		logger.Log.Error("lock toggle failed", "thread_id", thread.Id, "error", err)
		return false, apperr.Persistence("Sorry! There was an error while updating the thread.")
	}
	return locked, nil
}

func (s *Thread) updatableThread(ctx context.Context, actor domain.Actor, ref ThreadRef) (domain.Thread, error) {
	_, _, thread, err := s.thread(ctx, actor, ref, msgThreadNotFound)
	if err != nil {
		return domain.Thread{}, err
	}
	if !s.checker.Can(ctx, actor, domain.CapUpdateThread, &thread) {
		if actor.Guest {
			return domain.Thread{}, apperr.AuthRequired("Please sign in to update the thread.")
		}
		return domain.Thread{}, apperr.PermissionDenied("Sorry! You do not have the required permission to perform this action.")
	}
	return thread, nil
}
