package service

import (
	"context"
	"sync"
	"time"

	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/domain"
)

// --- Mocks ---

// MockStorage mocks the storage surface of every service. Unset funcs
// fall back to a plausible default so tests only wire what they assert.
type MockStorage struct {
	categoryFunc            func(id domain.CategoryId) (domain.Category, error)
	forumFunc               func(categoryId domain.CategoryId, forumId domain.ForumId) (domain.Forum, error)
	threadFunc              func(categoryId domain.CategoryId, forumId domain.ForumId, threadId domain.ThreadId) (domain.Thread, error)
	threadByIdFunc          func(threadId domain.ThreadId) (domain.Thread, error)
	categoriesFunc          func(visibleOnly bool) ([]domain.Category, error)
	forumsFunc              func(categoryId domain.CategoryId, visibleOnly bool) ([]domain.Forum, error)
	forumThreadsFunc        func(forumId domain.ForumId, page, perPage int) ([]domain.Thread, error)
	totalThreadsFunc        func() (int64, error)
	totalPostsFunc          func() (int64, error)
	postsByAuthorFunc       func(authorId domain.UserId, page, perPage int) ([]domain.Post, error)
	postCountByAuthorFunc   func(authorId domain.UserId) (int64, error)
	threadsByAuthorFunc     func(authorId domain.UserId, page, perPage int) ([]domain.Thread, error)
	threadCountByAuthorFunc func(authorId domain.UserId) (int64, error)
	createThreadFunc        func(data domain.ThreadCreationData) (domain.Thread, error)
	threadPostsFunc         func(threadId domain.ThreadId, page, perPage int) ([]domain.Post, error)
	bumpThreadViewsFunc     func(threadId domain.ThreadId) error
	setThreadPinnedFunc     func(threadId domain.ThreadId, pinned bool) error
	setThreadLockedFunc     func(threadId domain.ThreadId, locked bool) error
	postFunc                func(postId domain.PostId) (domain.Post, error)
	threadPostFunc          func(threadId domain.ThreadId, postId domain.PostId) (domain.Post, error)
	latestPostFunc          func(threadId domain.ThreadId) (domain.Post, error)
	openingPostIdFunc       func(threadId domain.ThreadId) (domain.PostId, error)
	insertReplyFunc         func(data domain.ReplyData) (domain.Post, error)
	mergeIntoPostFunc       func(postId domain.PostId, addition string) (domain.Post, error)
	updatePostFunc          func(postId domain.PostId, content string, topic *string) (domain.Post, error)
	countEarlierPostsFunc   func(threadId domain.ThreadId, postId domain.PostId) (int64, error)
	applyVoteFunc           func(postId domain.PostId, voterId domain.UserId, thumb int) (domain.VoteResult, error)
	forumModeratorsFunc     func(forumId domain.ForumId) ([]domain.UserId, error)
	saveMessagesFunc        func(messages []domain.Message) error

	mu                sync.Mutex
	savedMessages     []domain.Message
	bumpViewsCalled   bool
	insertReplyCalled bool
	mergeCalled       bool
}

func (m *MockStorage) Category(_ context.Context, id domain.CategoryId) (domain.Category, error) {
	if m.categoryFunc != nil {
		return m.categoryFunc(id)
	}
	return domain.Category{Id: id, Name: "General", Slug: "general", Visible: true}, nil
}

func (m *MockStorage) Forum(_ context.Context, categoryId domain.CategoryId, forumId domain.ForumId) (domain.Forum, error) {
	if m.forumFunc != nil {
		return m.forumFunc(categoryId, forumId)
	}
	return domain.Forum{Id: forumId, CategoryId: categoryId, Name: "Main", Slug: "main", Visible: true}, nil
}

func (m *MockStorage) Thread(_ context.Context, categoryId domain.CategoryId, forumId domain.ForumId, threadId domain.ThreadId) (domain.Thread, error) {
	if m.threadFunc != nil {
		return m.threadFunc(categoryId, forumId, threadId)
	}
	return domain.Thread{Id: threadId, CategoryId: categoryId, ForumId: forumId, AuthorId: 1, Name: "Thread", Slug: "thread"}, nil
}

func (m *MockStorage) ThreadById(_ context.Context, threadId domain.ThreadId) (domain.Thread, error) {
	if m.threadByIdFunc != nil {
		return m.threadByIdFunc(threadId)
	}
	return domain.Thread{Id: threadId, CategoryId: 1, ForumId: 1, AuthorId: 1, Name: "Thread", Slug: "thread"}, nil
}

func (m *MockStorage) Categories(_ context.Context, visibleOnly bool) ([]domain.Category, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(visibleOnly)
	}
	return []domain.Category{{Id: 1, Name: "General", Slug: "general", Visible: true}}, nil
}

func (m *MockStorage) Forums(_ context.Context, categoryId domain.CategoryId, visibleOnly bool) ([]domain.Forum, error) {
	if m.forumsFunc != nil {
		return m.forumsFunc(categoryId, visibleOnly)
	}
	return []domain.Forum{{Id: 1, CategoryId: categoryId, Name: "Main", Slug: "main", Visible: true}}, nil
}

func (m *MockStorage) ForumThreads(_ context.Context, forumId domain.ForumId, page, perPage int) ([]domain.Thread, error) {
	if m.forumThreadsFunc != nil {
		return m.forumThreadsFunc(forumId, page, perPage)
	}
	return nil, nil
}

func (m *MockStorage) TotalThreads(_ context.Context) (int64, error) {
	if m.totalThreadsFunc != nil {
		return m.totalThreadsFunc()
	}
	return 0, nil
}

func (m *MockStorage) TotalPosts(_ context.Context) (int64, error) {
	if m.totalPostsFunc != nil {
		return m.totalPostsFunc()
	}
	return 0, nil
}

func (m *MockStorage) PostsByAuthor(_ context.Context, authorId domain.UserId, page, perPage int) ([]domain.Post, error) {
	if m.postsByAuthorFunc != nil {
		return m.postsByAuthorFunc(authorId, page, perPage)
	}
	return nil, nil
}

func (m *MockStorage) PostCountByAuthor(_ context.Context, authorId domain.UserId) (int64, error) {
	if m.postCountByAuthorFunc != nil {
		return m.postCountByAuthorFunc(authorId)
	}
	return 0, nil
}

func (m *MockStorage) ThreadsByAuthor(_ context.Context, authorId domain.UserId, page, perPage int) ([]domain.Thread, error) {
	if m.threadsByAuthorFunc != nil {
		return m.threadsByAuthorFunc(authorId, page, perPage)
	}
	return nil, nil
}

func (m *MockStorage) ThreadCountByAuthor(_ context.Context, authorId domain.UserId) (int64, error) {
	if m.threadCountByAuthorFunc != nil {
		return m.threadCountByAuthorFunc(authorId)
	}
	return 0, nil
}

func (m *MockStorage) CreateThread(_ context.Context, data domain.ThreadCreationData) (domain.Thread, error) {
	if m.createThreadFunc != nil {
		return m.createThreadFunc(data)
	}
	return domain.Thread{Id: 10, CategoryId: data.CategoryId, ForumId: data.ForumId,
		AuthorId: data.AuthorId, Name: data.Name, Slug: data.Slug, Posts: 1}, nil
}

func (m *MockStorage) ThreadPosts(_ context.Context, threadId domain.ThreadId, page, perPage int) ([]domain.Post, error) {
	if m.threadPostsFunc != nil {
		return m.threadPostsFunc(threadId, page, perPage)
	}
	return []domain.Post{{Id: 1, ThreadId: threadId, AuthorId: 1, Content: "<p>op</p>"}}, nil
}

func (m *MockStorage) BumpThreadViews(_ context.Context, threadId domain.ThreadId) error {
	m.mu.Lock()
	m.bumpViewsCalled = true
	m.mu.Unlock()

	if m.bumpThreadViewsFunc != nil {
		return m.bumpThreadViewsFunc(threadId)
	}
	return nil
}

func (m *MockStorage) SetThreadPinned(_ context.Context, threadId domain.ThreadId, pinned bool) error {
	if m.setThreadPinnedFunc != nil {
		return m.setThreadPinnedFunc(threadId, pinned)
	}
	return nil
}

func (m *MockStorage) SetThreadLocked(_ context.Context, threadId domain.ThreadId, locked bool) error {
	if m.setThreadLockedFunc != nil {
		return m.setThreadLockedFunc(threadId, locked)
	}
	return nil
}

func (m *MockStorage) Post(_ context.Context, postId domain.PostId) (domain.Post, error) {
	if m.postFunc != nil {
		return m.postFunc(postId)
	}
	return domain.Post{Id: postId, ThreadId: 1, ForumId: 1, AuthorId: 1, Content: "<p>post</p>"}, nil
}

func (m *MockStorage) ThreadPost(_ context.Context, threadId domain.ThreadId, postId domain.PostId) (domain.Post, error) {
	if m.threadPostFunc != nil {
		return m.threadPostFunc(threadId, postId)
	}
	return domain.Post{Id: postId, ThreadId: threadId, ForumId: 1, AuthorId: 1, Content: "<p>post</p>"}, nil
}

func (m *MockStorage) LatestPost(_ context.Context, threadId domain.ThreadId) (domain.Post, error) {
	if m.latestPostFunc != nil {
		return m.latestPostFunc(threadId)
	}
	return domain.Post{Id: 1, ThreadId: threadId, ForumId: 1, AuthorId: 1, Content: "<p>op</p>"}, nil
}

func (m *MockStorage) OpeningPostId(_ context.Context, threadId domain.ThreadId) (domain.PostId, error) {
	if m.openingPostIdFunc != nil {
		return m.openingPostIdFunc(threadId)
	}
	return 1, nil
}

func (m *MockStorage) InsertReply(_ context.Context, data domain.ReplyData) (domain.Post, error) {
	m.mu.Lock()
	m.insertReplyCalled = true
	m.mu.Unlock()

	if m.insertReplyFunc != nil {
		return m.insertReplyFunc(data)
	}
	return domain.Post{Id: 2, ThreadId: data.ThreadId, ForumId: data.ForumId,
		AuthorId: data.AuthorId, Content: data.Content}, nil
}

func (m *MockStorage) MergeIntoPost(_ context.Context, postId domain.PostId, addition string) (domain.Post, error) {
	m.mu.Lock()
	m.mergeCalled = true
	m.mu.Unlock()

	if m.mergeIntoPostFunc != nil {
		return m.mergeIntoPostFunc(postId, addition)
	}
	return domain.Post{Id: postId, ThreadId: 1, ForumId: 1, AuthorId: 1, Content: "<p>op</p>" + addition, Edited: true}, nil
}

func (m *MockStorage) UpdatePost(_ context.Context, postId domain.PostId, content string, topic *string) (domain.Post, error) {
	if m.updatePostFunc != nil {
		return m.updatePostFunc(postId, content, topic)
	}
	return domain.Post{Id: postId, ThreadId: 1, ForumId: 1, AuthorId: 1, Content: content, Edited: true}, nil
}

func (m *MockStorage) CountEarlierPosts(_ context.Context, threadId domain.ThreadId, postId domain.PostId) (int64, error) {
	if m.countEarlierPostsFunc != nil {
		return m.countEarlierPostsFunc(threadId, postId)
	}
	return 0, nil
}

func (m *MockStorage) ApplyVote(_ context.Context, postId domain.PostId, voterId domain.UserId, thumb int) (domain.VoteResult, error) {
	if m.applyVoteFunc != nil {
		return m.applyVoteFunc(postId, voterId, thumb)
	}
	return domain.VoteResult{Likes: 1, Changed: true}, nil
}

func (m *MockStorage) ForumModerators(_ context.Context, forumId domain.ForumId) ([]domain.UserId, error) {
	if m.forumModeratorsFunc != nil {
		return m.forumModeratorsFunc(forumId)
	}
	return nil, nil
}

func (m *MockStorage) SaveMessages(_ context.Context, messages []domain.Message) error {
	m.mu.Lock()
	m.savedMessages = append(m.savedMessages, messages...)
	m.mu.Unlock()

	if m.saveMessagesFunc != nil {
		return m.saveMessagesFunc(messages)
	}
	return nil
}

// MockValidator mocks topic/content/report validation.
type MockValidator struct {
	topicFunc   func(topic string) error
	contentFunc func(content string) error
	reportFunc  func(message string) error
}

func (m *MockValidator) Topic(topic string) error {
	if m.topicFunc != nil {
		return m.topicFunc(topic)
	}
	return nil
}

func (m *MockValidator) Content(content string) error {
	if m.contentFunc != nil {
		return m.contentFunc(content)
	}
	return nil
}

func (m *MockValidator) Report(message string) error {
	if m.reportFunc != nil {
		return m.reportFunc(message)
	}
	return nil
}

// MockRenderer passes content through untouched unless overridden, so
// assertions can compare against the raw input.
type MockRenderer struct {
	renderFunc func(raw string) string
}

func (m *MockRenderer) Render(raw string) string {
	if m.renderFunc != nil {
		return m.renderFunc(raw)
	}
	return raw
}

func (m *MockRenderer) Quote(quotedContent, excerpt string) string {
	content := quotedContent
	if excerpt != "" {
		content = excerpt
	}
	return "<blockquote>" + content + "</blockquote>\n"
}

func (m *MockRenderer) Sanitize(raw string) string { return raw }

// MockChecker grants everything to authenticated actors by default.
type MockChecker struct {
	canFunc func(actor domain.Actor, capability domain.Capability, target any) bool
}

func (m *MockChecker) Can(_ context.Context, actor domain.Actor, capability domain.Capability, target any) bool {
	if m.canFunc != nil {
		return m.canFunc(actor, capability, target)
	}
	return actor.Authenticated()
}

// MemCache is an in-memory Cache with failure injection and deletion
// tracking.
type MemCache struct {
	mu       sync.Mutex
	values   map[string]string
	elements map[string]map[string]string
	deleted  []string
	failWith error
}

func NewMemCache() *MemCache {
	return &MemCache{values: map[string]string{}, elements: map[string]map[string]string{}}
}

func (c *MemCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return "", false, c.failWith
	}
	value, found := c.values[key]
	return value, found, nil
}

func (c *MemCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.values[key] = value
	return nil
}

func (c *MemCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	delete(c.values, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *MemCache) GetElements(_ context.Context, key string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	elements := map[string]string{}
	for k, v := range c.elements[key] {
		elements[k] = v
	}
	return elements, nil
}

func (c *MemCache) GetElement(_ context.Context, key, element string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return "", false, c.failWith
	}
	value, found := c.elements[key][element]
	return value, found, nil
}

func (c *MemCache) SetElements(_ context.Context, key string, elements map[string]string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	replaced := map[string]string{}
	for k, v := range elements {
		replaced[k] = v
	}
	c.elements[key] = replaced
	return nil
}

func (c *MemCache) SetElement(_ context.Context, key, element, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	if c.elements[key] == nil {
		c.elements[key] = map[string]string{}
	}
	c.elements[key][element] = value
	return nil
}

func (c *MemCache) DeleteElement(_ context.Context, key, element string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	delete(c.elements[key], element)
	c.deleted = append(c.deleted, key+"#"+element)
	return nil
}

func (c *MemCache) deletedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deleted...)
}

// --- Helpers ---

func testConfig() config.Public {
	return config.Public{
		ThreadsPerPage: 2,
		PostsPerPage:   2,
		VotesPerHour:   10,
		VoteWindow:     time.Hour,
		StatsTTL:       time.Minute,
	}
}

var member = domain.Actor{Id: 2}
var admin = domain.Actor{Id: 99, Admin: true}

func testRef() ThreadRef {
	return ThreadRef{CategoryId: 1, ForumId: 1, ThreadId: 1, Slug: "thread"}
}
