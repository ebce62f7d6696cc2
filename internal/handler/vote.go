package handler

import (
	"net/http"

	"github.com/forumkit/forumkit/internal/api"
	mw "github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/utils"
)

func (h *Handler) VotePost(w http.ResponseWriter, r *http.Request) {
	actor := mw.ActorFromContext(r)
	postId, err := idParam(r, "post")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body api.VoteRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}

	result, err := h.vote.Cast(r.Context(), actor, postId, body.Direction)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.VoteResponse{
		Likes:    result.Likes,
		Dislikes: result.Dislikes,
		Changed:  result.Changed,
	})
}
