package handler

import (
	"net/http"

	"github.com/forumkit/forumkit/internal/api"
	mw "github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/utils"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)

	listings, err := h.catalog.List(r.Context(), actor)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.CategoryListingResponse{Categories: listings})
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)
	categoryId, err := idParam(r, "category")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	listing, err := h.catalog.Category(r.Context(), actor, categoryId, slugParam(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.CategoryResponse{CategoryListing: listing})
}

func (h *Handler) GetForum(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)
	categoryId, err := idParam(r, "category")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	forumId, err := idParam(r, "forum")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	page, err := h.catalog.Forum(r.Context(), actor, categoryId, forumId, slugParam(r), pageParam(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ForumResponse{ForumPage: page})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.StatsResponse{Threads: stats.Threads, Posts: stats.Posts})
}

func (h *Handler) GetMemberPosts(w http.ResponseWriter, r *http.Request) {
	memberId, err := idParam(r, "member")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	page := pageParam(r)
	posts, total, err := h.catalog.MemberPosts(r.Context(), memberId, page)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MemberPostsResponse{Posts: posts, Total: total, Page: page})
}

func (h *Handler) GetMemberThreads(w http.ResponseWriter, r *http.Request) {
	memberId, err := idParam(r, "member")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	page := pageParam(r)
	threads, total, err := h.catalog.MemberThreads(r.Context(), memberId, page)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.MemberThreadsResponse{Threads: threads, Total: total, Page: page})
}
