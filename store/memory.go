package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aidekit/aidekit/pkg/llms"
)

// Memory is an in-process Provider. Chats are kept in a mutex-guarded
// map created on first use.
type Memory struct {
	mu    sync.RWMutex
	chats map[string]*memoryChat
}

type memoryChat struct {
	info     ChatInfo
	messages []llms.Message
}

// NewMemoryStore creates an in-memory history provider.
func NewMemoryStore() *Memory {
	return &Memory{}
}

var _ Provider = (*Memory)(nil)

// History returns the history of the given chat.
func (m *Memory) History(chatID string) ChatHistory {
	return &memoryHistory{store: m, chatID: chatID}
}

type memoryHistory struct {
	store  *Memory
	chatID string
}

func (h *memoryHistory) Messages(_ context.Context) ([]llms.Message, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	chat := h.store.chats[h.chatID]
	if chat == nil {
		return nil, nil
	}
	return slices.Clone(chat.messages), nil
}

func (h *memoryHistory) Add(_ context.Context, msgs ...llms.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.store.chats == nil {
		// create on first use
		h.store.chats = make(map[string]*memoryChat)
	}
	now := time.Now()
	chat := h.store.chats[h.chatID]
	if chat == nil {
		chat = &memoryChat{info: newChatInfo(h.chatID, now)}
		h.store.chats[h.chatID] = chat
	}
	chat.messages = append(chat.messages, msgs...)
	chat.info.UpdatedAt = now
	return nil
}

func (h *memoryHistory) Clear(_ context.Context) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.store.chats != nil {
		delete(h.store.chats, h.chatID)
	}
	return nil
}

func (h *memoryHistory) Info(_ context.Context) (*ChatInfo, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	chat := h.store.chats[h.chatID]
	if chat == nil {
		return nil, nil
	}
	info := chat.info
	return &info, nil
}
