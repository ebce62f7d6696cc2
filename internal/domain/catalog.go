package domain

import "time"

// Category is a top-level grouping of forums, optionally hidden from guests.
type Category struct {
	Id      CategoryId
	Name    string
	Slug    string
	Visible bool
	Sort    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Forum is a board within a category. Threads and Posts hold denormalized
// row counts maintained transactionally by the lifecycle service.
type Forum struct {
	Id         ForumId
	CategoryId CategoryId
	Name       string
	Sub        string
	Slug       string
	Visible    bool
	Sort       int
	Threads    int
	Posts      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryListing is a category together with its visible forums,
// as rendered on the forum index.
type CategoryListing struct {
	Category Category
	Forums   []Forum
}

// ForumPage is one page of a forum as rendered by the forum view.
type ForumPage struct {
	Category Category
	Forum    Forum
	Threads  []Thread
	Page     int
}

// Stats are the aggregate counters shown in the forum footer.
type Stats struct {
	Threads int64
	Posts   int64
}
