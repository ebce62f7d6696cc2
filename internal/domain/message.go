package domain

import "time"

// MessageStatus tracks a message from each side of the conversation.
type MessageStatus int

const (
	MessageStatusNew     MessageStatus = 1
	MessageStatusRead    MessageStatus = 10
	MessageStatusRemoved MessageStatus = 20
)

// Message is one moderation-report message, one row per
// (report, moderator) pair.
type Message struct {
	Id             MessageId
	SenderId       UserId
	ReceiverId     UserId
	Topic          string
	Content        string
	SenderStatus   MessageStatus
	ReceiverStatus MessageStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportOutcome reports how many moderators received the report.
// Recipients == 0 means the reporter was the only moderator; the report
// is acknowledged but nothing is sent.
type ReportOutcome struct {
	Recipients int
}

func (o ReportOutcome) NoRecipients() bool { return o.Recipients == 0 }
