package handler

import (
	"net/http"

	"github.com/forumkit/forumkit/internal/api"
	mw "github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/utils"
)

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)
	ref, err := threadRef(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body api.CreateReplyRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}
	if body.Preview {
		writeJSON(w, http.StatusOK, api.PreviewResponse{Html: h.post.Preview(body.Content)})
		return
	}

	result, err := h.post.Reply(r.Context(), actor, ref, body.Content, body.QuotedPostId, body.QuoteExcerpt)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Merged {
		// no new resource was created
		status = http.StatusOK
	}
	writeJSON(w, status, api.ReplyResponse{Post: result.Post, Merged: result.Merged})
}

func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)
	ref, err := threadRef(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	postId, err := idParam(r, "post")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body api.EditPostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}
	if body.Preview {
		writeJSON(w, http.StatusOK, api.PreviewResponse{Html: h.post.Preview(body.Content)})
		return
	}

	post, err := h.post.Edit(r.Context(), actor, ref, postId, body.Content, body.Topic)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.PostResponse{Post: post})
}

// ShowPost resolves a bare post id to its thread location, so permalinks
// can redirect to the right page.
func (h *Handler) ShowPost(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)
	postId, err := idParam(r, "post")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	location, err := h.post.Show(r.Context(), actor, postId)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.PostLocationResponse{PostLocation: location})
}

// PreviewPost renders submitted markup without saving anything.
func (h *Handler) PreviewPost(w http.ResponseWriter, r *http.Request) {
	var body api.PreviewRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.PreviewResponse{Html: h.post.Preview(body.Content)})
}
