package domain

type (
	UserId     = int64
	CategoryId = int64
	ForumId    = int64
	ThreadId   = int64
	PostId     = int64
	MessageId  = int64
)

// Capability is a named permission checked against the access policy.
type Capability string

const (
	CapCreateThread  Capability = "createThread"
	CapCreatePost    Capability = "createPost"
	CapUpdateThread  Capability = "updateThread"
	CapUpdatePost    Capability = "updatePost"
	CapUpdateOwnPost Capability = "updateOwnPost"
)

// VoteDirection is the wire form of a thumb vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Thumb returns the stored sign for the direction: +1 for up, -1 for down.
func (d VoteDirection) Thumb() int {
	if d == VoteUp {
		return 1
	}
	return -1
}

func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}
