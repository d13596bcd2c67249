// Package store keeps conversation history for the agent. A Provider
// hands out per-chat histories; implementations back them with memory
// or Redis.
package store

import (
	"context"
	"time"

	"github.com/aidekit/aidekit/pkg/llms"
)

// ChatInfo is the metadata stored alongside a chat's message log.
type ChatInfo struct {
	ChatID    string    `json:"chat_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatHistory is the message log of one conversation.
type ChatHistory interface {
	// Messages returns the stored messages in insertion order.
	Messages(ctx context.Context) ([]llms.Message, error)
	// Add appends messages to the log.
	Add(ctx context.Context, msgs ...llms.Message) error
	// Clear removes the log and its metadata.
	Clear(ctx context.Context) error
	// Info returns the chat metadata, or nil when the chat has no
	// stored messages yet.
	Info(ctx context.Context) (*ChatInfo, error)
}

// Provider hands out chat histories keyed by chat ID.
type Provider interface {
	History(chatID string) ChatHistory
}

// newChatInfo initializes metadata for a chat seen for the first time.
func newChatInfo(chatID string, now time.Time) ChatInfo {
	return ChatInfo{
		ChatID:    chatID,
		Title:     "New Chat",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
