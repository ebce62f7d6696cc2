package domain

import "time"

type Thread struct {
	Id         ThreadId
	CategoryId CategoryId
	ForumId    ForumId
	AuthorId   UserId
	Name       string
	Slug       string
	Posts      int
	Views      int
	Locked     bool
	Pinned     bool

	// NewPostAt moves when a reply is appended; EditedPostAt also moves
	// when an existing post is edited or merged into.
	NewPostAt    time.Time
	EditedPostAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	CategoryId CategoryId
	ForumId    ForumId
	AuthorId   UserId
	Name       string
	Slug       string
	Content    string
}

// ThreadPage is one page of a thread as rendered by the thread view.
type ThreadPage struct {
	Category Category
	Forum    Forum
	Thread   Thread
	Posts    []Post
	Page     int
}
