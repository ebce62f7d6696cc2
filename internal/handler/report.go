package handler

import (
	"net/http"

	"github.com/forumkit/forumkit/internal/api"
	mw "github.com/forumkit/forumkit/internal/middleware"
	"github.com/forumkit/forumkit/internal/utils"
)

func (h *Handler) ReportPost(w http.ResponseWriter, r *http.Request) {
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

	var body api.ReportRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}

	outcome, err := h.report.Report(r.Context(), actor, ref, postId, body.Message)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	// a report with no one else to notify is acknowledged, not an error
	message := "Thank you! The moderation team has been notified."
	if outcome.NoRecipients() {
		message = "Thank you! Your report has been recorded."
	}
	writeJSON(w, http.StatusOK, api.ReportResponse{Recipients: outcome.Recipients, Message: message})
}
