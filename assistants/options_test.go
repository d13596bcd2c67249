package assistants_test

import (
	"testing"

	"github.com/aidekit/aidekit/assistants"
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/store"
	"github.com/stretchr/testify/assert"
)

func Test_ConfigCallOptions(t *testing.T) {
	t.Parallel()

	cfg := assistants.NewConfig()
	assert.Equal(t, "", cfg.Model)
	assert.Equal(t, 0, cfg.MaxTokens)
	assert.Equal(t, 0.0, cfg.Temperature)
	assert.Empty(t, cfg.StopWords)
	assert.Equal(t, 0, cfg.TopK)
	assert.Equal(t, 0.0, cfg.TopP)
	assert.Equal(t, 0, cfg.Seed)
	assert.Nil(t, cfg.CallbackHandler)
	assert.Nil(t, cfg.Store)
	assert.Equal(t, 0, cfg.MaxToolCalls)
	assert.False(t, cfg.SkipMessageHistory)

	// Unset parameters produce no call options.
	assert.Empty(t, cfg.GetCallOptions())

	cfg = assistants.NewConfig(
		assistants.WithModel("gpt-4o-mini"),
		assistants.WithMaxTokens(100),
		assistants.WithTemperature(0.7),
		assistants.WithStopWords([]string{"foo", "bar"}),
		assistants.WithTopK(10),
		assistants.WithTopP(0.9),
		assistants.WithSeed(42),
		assistants.WithCallback(assistants.NewNoopCallback()),
		assistants.WithStore(store.NewMemoryStore()),
		assistants.WithMaxToolCalls(10),
		assistants.WithMaxMessages(200),
		assistants.WithMaxContentSize(1024),
		assistants.WithSkipMessageHistory(true),
	)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 100, cfg.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 0.0001)
	assert.Equal(t, []string{"foo", "bar"}, cfg.StopWords)
	assert.Equal(t, 10, cfg.TopK)
	assert.InDelta(t, 0.9, cfg.TopP, 0.0001)
	assert.Equal(t, 42, cfg.Seed)
	assert.NotNil(t, cfg.CallbackHandler)
	assert.NotNil(t, cfg.Store)
	assert.Equal(t, 10, cfg.MaxToolCalls)
	assert.Equal(t, 200, cfg.MaxMessages)
	assert.Equal(t, 1024, cfg.MaxContentSize)
	assert.True(t, cfg.SkipMessageHistory)

	var opts llms.CallOptions
	for _, opt := range cfg.GetCallOptions() {
		opt(&opts)
	}
	assert.Equal(t, "gpt-4o-mini", opts.Model)
	assert.Equal(t, 100, opts.MaxTokens)
	assert.InDelta(t, 0.7, opts.Temperature, 0.0001)
	assert.Equal(t, []string{"foo", "bar"}, opts.StopWords)
	assert.Equal(t, 10, opts.TopK)
	assert.InDelta(t, 0.9, opts.TopP, 0.0001)
	assert.Equal(t, 42, opts.Seed)
	// Agent level options are not call options.
	assert.Empty(t, opts.Tools)
}
