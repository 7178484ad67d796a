package domain

import "time"

// Confession is an anonymous post. It has no relation with identities or messages.
type Confession struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	PostedAt time.Time `json:"postedAt"`
}
