package store

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"

	"github.com/aidekit/aidekit/pkg/llms"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "store")

// maxStoredMessages bounds a chat log; older entries are trimmed.
const maxStoredMessages = 50

// DefaultTTL is how long an idle chat is kept. Every write resets it.
const DefaultTTL = 30 * 24 * time.Hour

// Redis is a Provider backed by Redis. The keys are structured under
// the prefix:
//   - <prefix>/chatstore/<chatID>/messages for the message log
//   - <prefix>/chatstore/<chatID>/info for the chat metadata
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithTTL overrides the idle-chat expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// NewRedisStore creates a Redis-backed history provider.
func NewRedisStore(client *redis.Client, prefix string, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: prefix,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ Provider = (*Redis)(nil)

// History returns the history of the given chat.
func (r *Redis) History(chatID string) ChatHistory {
	return &redisHistory{store: r, chatID: chatID}
}

func (r *Redis) messagesKey(chatID string) string {
	return path.Join(r.prefix, "chatstore", chatID, "messages")
}

func (r *Redis) infoKey(chatID string) string {
	return path.Join(r.prefix, "chatstore", chatID, "info")
}

type redisHistory struct {
	store  *Redis
	chatID string
}

func (h *redisHistory) Messages(ctx context.Context) ([]llms.Message, error) {
	key := h.store.messagesKey(h.chatID)
	data, err := h.store.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load messages from Redis")
	}

	msgs := make([]llms.Message, 0, len(data))
	for _, item := range data {
		var msg llms.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			// skip corrupt entries instead of losing the whole chat
			logger.ContextKV(ctx, xlog.ERROR,
				"reason", "unmarshal message",
				"chat_id", h.chatID,
				"err", err.Error())
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (h *redisHistory) Add(ctx context.Context, msgs ...llms.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	items := make([]any, 0, len(msgs))
	for i := range msgs {
		data, err := json.Marshal(msgs[i])
		if err != nil {
			return errors.Wrap(err, "failed to marshal message")
		}
		items = append(items, data)
	}

	key := h.store.messagesKey(h.chatID)
	pipe := h.store.client.Pipeline()
	pipe.RPush(ctx, key, items...)
	// Keep only the last 50 messages
	pipe.LTrim(ctx, key, -maxStoredMessages, -1)
	pipe.Expire(ctx, key, h.store.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to store messages in Redis")
	}
	return h.touchInfo(ctx)
}

func (h *redisHistory) Clear(ctx context.Context) error {
	pipe := h.store.client.Pipeline()
	pipe.Del(ctx, h.store.messagesKey(h.chatID))
	pipe.Del(ctx, h.store.infoKey(h.chatID))
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to reset chat in Redis")
	}
	return nil
}

func (h *redisHistory) Info(ctx context.Context) (*ChatInfo, error) {
	data, err := h.store.client.Get(ctx, h.store.infoKey(h.chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get chat info from Redis")
	}

	var info ChatInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal chat info")
	}
	return &info, nil
}

// touchInfo creates the chat metadata on first write and bumps the
// update time on every write.
func (h *redisHistory) touchInfo(ctx context.Context) error {
	info, err := h.Info(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	if info == nil {
		created := newChatInfo(h.chatID, now)
		info = &created
	}
	info.UpdatedAt = now

	data, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "failed to marshal chat info")
	}
	if err := h.store.client.Set(ctx, h.store.infoKey(h.chatID), data, h.store.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store chat info in Redis")
	}
	return nil
}
