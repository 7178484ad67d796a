package domain

import "time"

// SendMessageCommand is a validated inbound frame attributed to its authenticated sender.
type SendMessageCommand struct {
	From      Identity
	To        Identity
	Content   string
	CreatedAt time.Time
}

// ConversationQuery asks for the history between the caller and one contact.
type ConversationQuery struct {
	Credential string
	Contact    Identity
}

// PostConfessionCommand is an anonymous post. It carries no identity on purpose.
type PostConfessionCommand struct {
	Text      string `validate:"required,min=1,max=2000"`
	CreatedAt time.Time
}
