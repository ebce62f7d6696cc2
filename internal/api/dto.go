// Package api holds the request and response DTOs of the HTTP surface.
package api

import "github.com/forumkit/forumkit/internal/domain"

// Request DTOs

type CreateThreadRequest struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content" validate:"required"`
	// Preview renders the content back without persisting anything.
	Preview bool `json:"preview,omitempty"`
}

type CreateReplyRequest struct {
	Content string `json:"content" validate:"required"`
	// QuotedPostId seeds the reply with a quote of another post in the
	// same thread; an id that no longer resolves is silently dropped.
	QuotedPostId *domain.PostId `json:"quoted_post_id,omitempty"`
	QuoteExcerpt string         `json:"quote_excerpt,omitempty"`
	// Preview renders the content back without persisting anything.
	Preview bool `json:"preview,omitempty"`
}

type EditPostRequest struct {
	Content string `json:"content" validate:"required"`
	// Topic only applies when editing the opening post.
	Topic *string `json:"topic,omitempty"`
	// Preview renders the content back without persisting anything.
	Preview bool `json:"preview,omitempty"`
}

type PreviewRequest struct {
	Content string `json:"content" validate:"required"`
}

type VoteRequest struct {
	Direction domain.VoteDirection `json:"direction" validate:"required"`
}

type ReportRequest struct {
	Message string `json:"message" validate:"required"`
}

// Response DTOs

type CategoryListingResponse struct {
	Categories []domain.CategoryListing `json:"categories"`
}

type CategoryResponse struct {
	domain.CategoryListing
}

type ForumResponse struct {
	domain.ForumPage
}

type ThreadResponse struct {
	domain.ThreadPage
}

type CreateThreadResponse struct {
	Thread domain.Thread `json:"thread"`
}

type ReplyResponse struct {
	Post   domain.Post `json:"post"`
	Merged bool        `json:"merged"`
}

type PostResponse struct {
	Post domain.Post `json:"post"`
}

type PostLocationResponse struct {
	domain.PostLocation
}

type VoteResponse struct {
	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
	Changed  bool `json:"changed"`
}

type ReportResponse struct {
	Recipients int    `json:"recipients"`
	Message    string `json:"message"`
}

type PreviewResponse struct {
	Html string `json:"html"`
}

type ToggleResponse struct {
	Enabled bool `json:"enabled"`
}

type StatsResponse struct {
	Threads int64 `json:"threads"`
	Posts   int64 `json:"posts"`
}

type MemberPostsResponse struct {
	Posts []domain.Post `json:"posts"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
}

type MemberThreadsResponse struct {
	Threads []domain.Thread `json:"threads"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
}
