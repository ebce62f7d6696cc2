package handler

import (
	"context"
	"net/http"

	"github.com/forumkit/forumkit/internal/api"
	"github.com/forumkit/forumkit/internal/domain"
	mw "github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/service"
	"github.com/forumkit/forumkit/internal/utils"
)

// threadRef assembles the category/forum/thread id chain from the URL,
// with the slug from the query string.
func threadRef(r *http.Request) (service.ThreadRef, error) {
	categoryId, err := idParam(r, "category")
	if err != nil {
		return service.ThreadRef{}, err
	}
	forumId, err := idParam(r, "forum")
	if err != nil {
		return service.ThreadRef{}, err
	}
	threadId, err := idParam(r, "thread")
	if err != nil {
		return service.ThreadRef{}, err
	}
	return service.ThreadRef{CategoryId: categoryId, ForumId: forumId, ThreadId: threadId, Slug: slugParam(r)}, nil
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
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

	var body api.CreateThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}
	if body.Preview {
		writeJSON(w, http.StatusOK, api.PreviewResponse{Html: h.post.Preview(body.Content)})
		return
	}

	thread, err := h.thread.Create(r.Context(), actor, service.ThreadCreationRequest{
		CategoryId: categoryId,
		ForumId:    forumId,
		Name:       body.Name,
		Content:    body.Content,
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.CreateThreadResponse{Thread: thread})
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)
	ref, err := threadRef(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	page, err := h.thread.Get(r.Context(), actor, ref, pageParam(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ThreadResponse{ThreadPage: page})
}

func (h *Handler) TogglePinThread(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.thread.TogglePin)
}

func (h *Handler) ToggleLockThread(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.thread.ToggleLock)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor domain.Actor, ref service.ThreadRef) (bool, error)) {
	actor := mw.ActorFromContext(r)
	ref, err := threadRef(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	enabled, err := op(r.Context(), actor, ref)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ToggleResponse{Enabled: enabled})
}
