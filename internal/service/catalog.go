package service

import (
	"context"
	"strconv"

	"github.com/forumkit/forumkit/internal/cache"
	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/logger"
)

const msgCategoryNotFound = "Sorry! We can not find the category you are looking for."
const msgForumNotFound = "Sorry! We can not find the forum you are looking for."

// to mock service in tests
type CatalogService interface {
	List(ctx context.Context, actor domain.Actor) ([]domain.CategoryListing, error)
	Category(ctx context.Context, actor domain.Actor, id domain.CategoryId, slug string) (domain.CategoryListing, error)
	Forum(ctx context.Context, actor domain.Actor, categoryId domain.CategoryId, forumId domain.ForumId, slug string, page int) (domain.ForumPage, error)
	Stats(ctx context.Context) (domain.Stats, error)
	MemberPosts(ctx context.Context, userId domain.UserId, page int) ([]domain.Post, int64, error)
	MemberThreads(ctx context.Context, userId domain.UserId, page int) ([]domain.Thread, int64, error)
}

type CatalogStorage interface {
	ResolverStorage
	Categories(ctx context.Context, visibleOnly bool) ([]domain.Category, error)
	Forums(ctx context.Context, categoryId domain.CategoryId, visibleOnly bool) ([]domain.Forum, error)
	ForumThreads(ctx context.Context, forumId domain.ForumId, page, perPage int) ([]domain.Thread, error)
	TotalThreads(ctx context.Context) (int64, error)
	TotalPosts(ctx context.Context) (int64, error)
	PostsByAuthor(ctx context.Context, authorId domain.UserId, page, perPage int) ([]domain.Post, error)
	PostCountByAuthor(ctx context.Context, authorId domain.UserId) (int64, error)
	ThreadsByAuthor(ctx context.Context, authorId domain.UserId, page, perPage int) ([]domain.Thread, error)
	ThreadCountByAuthor(ctx context.Context, authorId domain.UserId) (int64, error)
}

type Catalog struct {
	resolver
	storage CatalogStorage
	cache   cache.Cache
	cfg     config.Public
}

func NewCatalog(storage CatalogStorage, c cache.Cache, cfg config.Public) *Catalog {
	return &Catalog{resolver{storage}, storage, c, cfg}
}

func (s *Catalog) List(ctx context.Context, actor domain.Actor) ([]domain.CategoryListing, error) {
	visibleOnly := actor.Guest
	categories, err := s.storage.Categories(ctx, visibleOnly)
	if err != nil {
		return nil, err
	}

	listings := make([]domain.CategoryListing, 0, len(categories))
	for _, category := range categories {
		forums, err := s.storage.Forums(ctx, category.Id, visibleOnly)
		if err != nil {
			return nil, err
		}
		listings = append(listings, domain.CategoryListing{Category: category, Forums: forums})
	}
	return listings, nil
}

func (s *Catalog) Category(ctx context.Context, actor domain.Actor, id domain.CategoryId, slug string) (domain.CategoryListing, error) {
	category, err := s.category(ctx, actor, id, slug, msgCategoryNotFound)
	if err != nil {
		return domain.CategoryListing{}, err
	}
	forums, err := s.storage.Forums(ctx, category.Id, actor.Guest)
	if err != nil {
		return domain.CategoryListing{}, err
	}
	return domain.CategoryListing{Category: category, Forums: forums}, nil
}

func (s *Catalog) Forum(ctx context.Context, actor domain.Actor, categoryId domain.CategoryId, forumId domain.ForumId, slug string, page int) (domain.ForumPage, error) {
	category, forum, err := s.forum(ctx, actor, categoryId, forumId, slug, msgForumNotFound)
	if err != nil {
		return domain.ForumPage{}, err
	}

	page = max(1, page)
	threads, err := s.storage.ForumThreads(ctx, forum.Id, page, s.cfg.ThreadsPerPage)
	if err != nil {
		return domain.ForumPage{}, err
	}
	return domain.ForumPage{Category: category, Forum: forum, Threads: threads, Page: page}, nil
}

// Stats serves the footer aggregate counters through the cache; a miss
// falls back to a count query and repopulates the key.
func (s *Catalog) Stats(ctx context.Context) (domain.Stats, error) {
	threads, err := s.cachedCount(ctx, cache.KeyForumThreadsCount, s.storage.TotalThreads)
	if err != nil {
		return domain.Stats{}, err
	}
	posts, err := s.cachedCount(ctx, cache.KeyForumPostsCount, s.storage.TotalPosts)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{Threads: threads, Posts: posts}, nil
}

func (s *Catalog) cachedCount(ctx context.Context, key string, load func(context.Context) (int64, error)) (int64, error) {
	if value, found, err := s.cache.Get(ctx, key); err != nil {
		logger.Log.Warn("cache read failed", "key", key, "error", err)
	} else if found {
		if count, err := strconv.ParseInt(value, 10, 64); err == nil {
			return count, nil
		}
	}

	count, err := load(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, key, strconv.FormatInt(count, 10), s.cfg.StatsTTL); err != nil {
		logger.Log.Warn("cache write failed", "key", key, "error", err)
	}
	return count, nil
}

func (s *Catalog) MemberPosts(ctx context.Context, userId domain.UserId, page int) ([]domain.Post, int64, error) {
	page = max(1, page)
	posts, err := s.storage.PostsByAuthor(ctx, userId, page, s.cfg.PostsPerPage)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.cachedMemberCount(ctx, cache.KeyUserPostsCount, userId, s.storage.PostCountByAuthor)
	if err != nil {
		return nil, 0, err
	}
	return posts, count, nil
}

func (s *Catalog) MemberThreads(ctx context.Context, userId domain.UserId, page int) ([]domain.Thread, int64, error) {
	page = max(1, page)
	threads, err := s.storage.ThreadsByAuthor(ctx, userId, page, s.cfg.ThreadsPerPage)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.cachedMemberCount(ctx, cache.KeyUserThreadsCount, userId, s.storage.ThreadCountByAuthor)
	if err != nil {
		return nil, 0, err
	}
	return threads, count, nil
}

// cachedMemberCount serves a per-user count through one element of a
// structured cache key, falling back to a count query on a miss.
func (s *Catalog) cachedMemberCount(ctx context.Context, key string, userId domain.UserId, load func(context.Context, domain.UserId) (int64, error)) (int64, error) {
	element := strconv.FormatInt(userId, 10)
	if value, found, err := s.cache.GetElement(ctx, key, element); err != nil {
		logger.Log.Warn("cache read failed", "key", key, "error", err)
	} else if found {
		if count, err := strconv.ParseInt(value, 10, 64); err == nil {
			return count, nil
		}
	}

	count, err := load(ctx, userId)
	if err != nil {
		return 0, err
	}
	if err := s.cache.SetElement(ctx, key, element, strconv.FormatInt(count, 10)); err != nil {
		logger.Log.Warn("cache write failed", "key", key, "error", err)
	}
	return count, nil
}
