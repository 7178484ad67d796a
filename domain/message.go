// Package domain contains core concepts of the chat system.
// This file defines Message records and related rules.
// Messages are immutable once persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted chat record. The same JSON shape is sent to a live
// session and replayed from the offline queue.
type Message struct {
	ID        uuid.UUID `json:"id"`
	From      Identity  `json:"from"`
	To        Identity  `json:"to"`
	Content   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// InboundFrame is what a connected client writes on its socket.
type InboundFrame struct {
	To      string `json:"to" validate:"required,max=128"`
	Message string `json:"message" validate:"required,max=4096"`
}

// Delivery tells how a routed message left the router.
type Delivery int

const (
	DeliveredLive Delivery = iota
	Queued
)

func (d Delivery) String() string {
	switch d {
	case DeliveredLive:
		return "live"
	case Queued:
		return "queued"
	default:
		return "unknown"
	}
}
