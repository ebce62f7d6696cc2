package service

import (
	"context"

	"github.com/forumkit/forumkit/internal/access"
	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/domain"
)

// ResolverStorage is the row-lookup surface shared by every service that
// walks the category -> forum -> thread chain.
type ResolverStorage interface {
	Category(ctx context.Context, id domain.CategoryId) (domain.Category, error)
	Forum(ctx context.Context, categoryId domain.CategoryId, forumId domain.ForumId) (domain.Forum, error)
	Thread(ctx context.Context, categoryId domain.CategoryId, forumId domain.ForumId, threadId domain.ThreadId) (domain.Thread, error)
}

// ThreadRef addresses a thread the way inbound actions do: by the full
// id chain plus the thread slug. An empty slug skips the slug check.
type ThreadRef struct {
	CategoryId domain.CategoryId
	ForumId    domain.ForumId
	ThreadId   domain.ThreadId
	Slug       string
}

// resolver resolves the id+slug chain, applying the guest visibility
// predicates at every step. Any miss surfaces as NotFound with the
// caller's message, so invisible rows are indistinguishable from
// missing ones.
type resolver struct {
	storage ResolverStorage
}

func (r resolver) category(ctx context.Context, actor domain.Actor, id domain.CategoryId, slug, notFoundMsg string) (domain.Category, error) {
	category, err := r.storage.Category(ctx, id)
	if err != nil {
		return domain.Category{}, notFoundOr(err, notFoundMsg)
	}
	if !access.CanSeeCategory(actor, &category) {
		return domain.Category{}, apperr.NotFound(notFoundMsg)
	}
	if slug != "" && category.Slug != slug {
		return domain.Category{}, apperr.NotFound(notFoundMsg)
	}
	return category, nil
}

func (r resolver) forum(ctx context.Context, actor domain.Actor, categoryId domain.CategoryId, forumId domain.ForumId, slug, notFoundMsg string) (domain.Category, domain.Forum, error) {
	category, err := r.category(ctx, actor, categoryId, "", notFoundMsg)
	if err != nil {
		return domain.Category{}, domain.Forum{}, err
	}
	forum, err := r.storage.Forum(ctx, categoryId, forumId)
	if err != nil {
		return domain.Category{}, domain.Forum{}, notFoundOr(err, notFoundMsg)
	}
	if !access.CanSeeForum(actor, &forum) {
		return domain.Category{}, domain.Forum{}, apperr.NotFound(notFoundMsg)
	}
	if slug != "" && forum.Slug != slug {
		return domain.Category{}, domain.Forum{}, apperr.NotFound(notFoundMsg)
	}
	return category, forum, nil
}

func (r resolver) thread(ctx context.Context, actor domain.Actor, ref ThreadRef, notFoundMsg string) (domain.Category, domain.Forum, domain.Thread, error) {
	category, forum, err := r.forum(ctx, actor, ref.CategoryId, ref.ForumId, "", notFoundMsg)
	if err != nil {
		return domain.Category{}, domain.Forum{}, domain.Thread{}, err
	}
	thread, err := r.storage.Thread(ctx, ref.CategoryId, ref.ForumId, ref.ThreadId)
	if err != nil {
		return domain.Category{}, domain.Forum{}, domain.Thread{}, notFoundOr(err, notFoundMsg)
	}
	if ref.Slug != "" && thread.Slug != ref.Slug {
		return domain.Category{}, domain.Forum{}, domain.Thread{}, apperr.NotFound(notFoundMsg)
	}
	return category, forum, thread, nil
}

// notFoundOr rewrites a storage NotFound with a contextual message and
// passes anything else through untouched.
func notFoundOr(err error, msg string) error {
	if apperr.IsKind(err, apperr.KindNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}
