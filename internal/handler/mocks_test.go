package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/jwt"
	"github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/service"
)

type MockCatalogService struct {
	MockList          func(actor domain.Actor) ([]domain.CategoryListing, error)
	MockCategory      func(actor domain.Actor, id domain.CategoryId, slug string) (domain.CategoryListing, error)
	MockForum         func(actor domain.Actor, categoryId domain.CategoryId, forumId domain.ForumId, slug string, page int) (domain.ForumPage, error)
	MockStats         func() (domain.Stats, error)
	MockMemberPosts   func(userId domain.UserId, page int) ([]domain.Post, int64, error)
	MockMemberThreads func(userId domain.UserId, page int) ([]domain.Thread, int64, error)
}

func (m *MockCatalogService) List(ctx context.Context, actor domain.Actor) ([]domain.CategoryListing, error) {
	if m.MockList != nil {
		return m.MockList(actor)
	}
	return []domain.CategoryListing{{Category: domain.Category{Id: 1, Slug: "general"}}}, nil
}

func (m *MockCatalogService) Category(ctx context.Context, actor domain.Actor, id domain.CategoryId, slug string) (domain.CategoryListing, error) {
	if m.MockCategory != nil {
		return m.MockCategory(actor, id, slug)
	}
	return domain.CategoryListing{Category: domain.Category{Id: id, Slug: "general"}}, nil
}

func (m *MockCatalogService) Forum(ctx context.Context, actor domain.Actor, categoryId domain.CategoryId, forumId domain.ForumId, slug string, page int) (domain.ForumPage, error) {
	if m.MockForum != nil {
		return m.MockForum(actor, categoryId, forumId, slug, page)
	}
	return domain.ForumPage{Forum: domain.Forum{Id: forumId}, Page: page}, nil
}

func (m *MockCatalogService) Stats(ctx context.Context) (domain.Stats, error) {
	if m.MockStats != nil {
		return m.MockStats()
	}
	return domain.Stats{Threads: 1, Posts: 2}, nil
}

func (m *MockCatalogService) MemberPosts(ctx context.Context, userId domain.UserId, page int) ([]domain.Post, int64, error) {
	if m.MockMemberPosts != nil {
		return m.MockMemberPosts(userId, page)
	}
	return []domain.Post{{Id: 1, AuthorId: userId}}, 1, nil
}

func (m *MockCatalogService) MemberThreads(ctx context.Context, userId domain.UserId, page int) ([]domain.Thread, int64, error) {
	if m.MockMemberThreads != nil {
		return m.MockMemberThreads(userId, page)
	}
	return []domain.Thread{{Id: 1, AuthorId: userId}}, 1, nil
}

type MockThreadService struct {
	MockCreate     func(actor domain.Actor, req service.ThreadCreationRequest) (domain.Thread, error)
	MockGet        func(actor domain.Actor, ref service.ThreadRef, page int) (domain.ThreadPage, error)
	MockTogglePin  func(actor domain.Actor, ref service.ThreadRef) (bool, error)
	MockToggleLock func(actor domain.Actor, ref service.ThreadRef) (bool, error)
}

func (m *MockThreadService) Create(ctx context.Context, actor domain.Actor, req service.ThreadCreationRequest) (domain.Thread, error) {
	if m.MockCreate != nil {
		return m.MockCreate(actor, req)
	}
	return domain.Thread{Id: 1, Name: req.Name}, nil
}

func (m *MockThreadService) Get(ctx context.Context, actor domain.Actor, ref service.ThreadRef, page int) (domain.ThreadPage, error) {
	if m.MockGet != nil {
		return m.MockGet(actor, ref, page)
	}
	return domain.ThreadPage{Thread: domain.Thread{Id: ref.ThreadId}, Page: page}, nil
}

func (m *MockThreadService) TogglePin(ctx context.Context, actor domain.Actor, ref service.ThreadRef) (bool, error) {
	if m.MockTogglePin != nil {
		return m.MockTogglePin(actor, ref)
	}
	return true, nil
}

func (m *MockThreadService) ToggleLock(ctx context.Context, actor domain.Actor, ref service.ThreadRef) (bool, error) {
	if m.MockToggleLock != nil {
		return m.MockToggleLock(actor, ref)
	}
	return true, nil
}

type MockPostService struct {
	MockReply   func(actor domain.Actor, ref service.ThreadRef, content string, quotedPostId *domain.PostId, quoteExcerpt string) (domain.ReplyResult, error)
	MockEdit    func(actor domain.Actor, ref service.ThreadRef, postId domain.PostId, content string, topic *string) (domain.Post, error)
	MockPreview func(raw string) string
	MockShow    func(actor domain.Actor, postId domain.PostId) (domain.PostLocation, error)
}

func (m *MockPostService) Reply(ctx context.Context, actor domain.Actor, ref service.ThreadRef, content string, quotedPostId *domain.PostId, quoteExcerpt string) (domain.ReplyResult, error) {
	if m.MockReply != nil {
		return m.MockReply(actor, ref, content, quotedPostId, quoteExcerpt)
	}
	return domain.ReplyResult{Post: domain.Post{Id: 2, Content: content}}, nil
}

func (m *MockPostService) Edit(ctx context.Context, actor domain.Actor, ref service.ThreadRef, postId domain.PostId, content string, topic *string) (domain.Post, error) {
	if m.MockEdit != nil {
		return m.MockEdit(actor, ref, postId, content, topic)
	}
	return domain.Post{Id: postId, Content: content, Edited: true}, nil
}

func (m *MockPostService) Preview(raw string) string {
	if m.MockPreview != nil {
		return m.MockPreview(raw)
	}
	return "<p>" + raw + "</p>"
}

func (m *MockPostService) Show(ctx context.Context, actor domain.Actor, postId domain.PostId) (domain.PostLocation, error) {
	if m.MockShow != nil {
		return m.MockShow(actor, postId)
	}
	return domain.PostLocation{PostId: postId, Page: 1}, nil
}

type MockVoteService struct {
	MockCast func(actor domain.Actor, postId domain.PostId, direction domain.VoteDirection) (domain.VoteResult, error)
}

func (m *MockVoteService) Cast(ctx context.Context, actor domain.Actor, postId domain.PostId, direction domain.VoteDirection) (domain.VoteResult, error) {
	if m.MockCast != nil {
		return m.MockCast(actor, postId, direction)
	}
	return domain.VoteResult{Likes: 1, Changed: true}, nil
}

type MockReportService struct {
	MockReport func(actor domain.Actor, ref service.ThreadRef, postId domain.PostId, message string) (domain.ReportOutcome, error)
}

func (m *MockReportService) Report(ctx context.Context, actor domain.Actor, ref service.ThreadRef, postId domain.PostId, message string) (domain.ReportOutcome, error) {
	if m.MockReport != nil {
		return m.MockReport(actor, ref, postId, message)
	}
	return domain.ReportOutcome{Recipients: 2}, nil
}

type MockPinger struct {
	MockPing func(ctx context.Context) error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.MockPing != nil {
		return m.MockPing(ctx)
	}
	return nil
}

var jwtService = jwt.New("test-secret", time.Hour)

// memberToken mints a token the auth middleware accepts, so handler tests
// go through the same route setup as production.
func memberToken(t *testing.T, actor domain.Actor) string {
	t.Helper()
	token, err := jwtService.NewToken(actor)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	return token
}

// newTestRouter mirrors the production route table around a handler built
// from the given mocks.
func newTestRouter(h *Handler) *chi.Mux {
	auth := middleware.NewAuth(jwtService)

	r := chi.NewRouter()
	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth())
			r.Get("/categories", h.ListCategories)
			r.Get("/categories/{category}", h.GetCategory)
			r.Get("/categories/{category}/forums/{forum}", h.GetForum)
			r.Get("/categories/{category}/forums/{forum}/threads/{thread}", h.GetThread)
			r.Get("/posts/{post}", h.ShowPost)
			r.Get("/stats", h.GetStats)
			r.Get("/members/{member}/posts", h.GetMemberPosts)
			r.Get("/members/{member}/threads", h.GetMemberThreads)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.NeedAuth())
			r.Post("/categories/{category}/forums/{forum}/threads", h.CreateThread)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/posts", h.CreateReply)
			r.Put("/categories/{category}/forums/{forum}/threads/{thread}/posts/{post}", h.EditPost)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/posts/{post}/report", h.ReportPost)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/pin", h.TogglePinThread)
			r.Post("/categories/{category}/forums/{forum}/threads/{thread}/lock", h.ToggleLockThread)
			r.Post("/posts/{post}/vote", h.VotePost)
			r.Post("/preview", h.PreviewPost)
		})
	})
	return r
}

func newTestHandler() *Handler {
	return New(&MockCatalogService{}, &MockThreadService{}, &MockPostService{}, &MockVoteService{}, &MockReportService{}, &MockPinger{})
}

// do runs req through a fresh router around h and returns the recorder.
func do(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rr, req)
	return rr
}

func asMember(t *testing.T, req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+memberToken(t, domain.Actor{Id: 2}))
	return req
}
