package domain

import "time"

type Post struct {
	Id       PostId
	ThreadId ThreadId
	ForumId  ForumId
	AuthorId UserId
	Content  string
	Likes    int
	Dislikes int
	Edited   bool
	EditedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReplyData struct {
	ThreadId ThreadId
	ForumId  ForumId
	AuthorId UserId
	Content  string
}

// ReplyResult reports whether the reply was merged into the previous post
// of the same author instead of creating a new row.
type ReplyResult struct {
	Post   Post
	Merged bool
}

// PostThumb is one user's vote on one post. The (PostId, UserId) pair is
// unique; Thumb is +1 or -1.
type PostThumb struct {
	PostId    PostId
	UserId    UserId
	Thumb     int
	CreatedAt time.Time
}

// VoteResult carries the post's totals after a vote. Changed is false for
// an idempotent same-direction re-vote.
type VoteResult struct {
	Likes    int
	Dislikes int
	Changed  bool
}

// PostLocation points at a post inside its thread, including the thread
// page the post lands on. Used for permalinks.
type PostLocation struct {
	CategoryId CategoryId
	ForumId    ForumId
	ThreadId   ThreadId
	ThreadSlug string
	PostId     PostId
	Page       int
}
