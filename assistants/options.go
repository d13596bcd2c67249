package assistants

import (
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/store"
)

const (
	// DefaultMaxToolCalls is the maximum number of tool executions in a single run.
	DefaultMaxToolCalls = 5
	// DefaultMaxMessages is the maximum number of messages sent to the LLM in a single call.
	DefaultMaxMessages = 100
	// DefaultMaxContentSize is the maximum total content size, in bytes, sent to the LLM.
	DefaultMaxContentSize = 256 * 1024
	// DefaultMaxRetries is the number of retries after an empty LLM response.
	DefaultMaxRetries = 3
)

// Option is a function that can be used to modify the behavior of the Assistant Config.
type Option func(*Config)

type Config struct {
	// Model is the model to use in an LLM call.
	Model    string
	modelSet bool

	// MaxTokens is the maximum number of tokens to generate to use in an LLM call.
	MaxTokens    int
	maxTokensSet bool

	// Temperature is the temperature for sampling to use in an LLM call, between 0 and 1.
	Temperature    float64
	temperatureSet bool

	// StopWords is a list of words to stop on to use in an LLM call.
	StopWords    []string
	stopWordsSet bool

	// TopK is the number of tokens to consider for top-k sampling in an LLM call.
	TopK    int
	topkSet bool

	// TopP is the cumulative probability for top-p sampling in an LLM call.
	TopP    float64
	toppSet bool

	// Seed is a seed for deterministic sampling in an LLM call.
	Seed    int
	seedSet bool

	//
	// Below are the options for the Assistant, not related to the LLM call.
	//

	// CallbackHandler receives run and tool notifications.
	CallbackHandler Callback

	// Store provides the conversation history, keyed by chat ID.
	Store store.Provider

	// MaxToolCalls bounds tool executions in a single run, DefaultMaxToolCalls when 0.
	MaxToolCalls int

	// MaxMessages bounds the conversation sent to the LLM, DefaultMaxMessages when 0.
	MaxMessages int

	// MaxContentSize bounds the total content bytes sent to the LLM,
	// DefaultMaxContentSize when 0.
	MaxContentSize int

	// SkipMessageHistory disables persisting the run messages to the Store.
	SkipMessageHistory bool
}

func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithModel is an option for LLM.Call.
func WithModel(model string) Option {
	return func(o *Config) {
		o.Model = model
		o.modelSet = true
	}
}

// WithMaxTokens is an option for LLM.Call.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		o.MaxTokens = maxTokens
		o.maxTokensSet = true
	}
}

// WithTemperature is an option for LLM.Call.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithStopWords is an option for setting the stop words for LLM.Call.
func WithStopWords(stopWords []string) Option {
	return func(o *Config) {
		o.StopWords = stopWords
		o.stopWordsSet = true
	}
}

// WithTopK will add an option to use top-k sampling for LLM.Call.
func WithTopK(topK int) Option {
	return func(o *Config) {
		o.TopK = topK
		o.topkSet = true
	}
}

// WithTopP will add an option to use top-p sampling for LLM.Call.
func WithTopP(topP float64) Option {
	return func(o *Config) {
		o.TopP = topP
		o.toppSet = true
	}
}

// WithSeed will add an option to use deterministic sampling for LLM.Call.
func WithSeed(seed int) Option {
	return func(o *Config) {
		o.Seed = seed
		o.seedSet = true
	}
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callbackHandler Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = callbackHandler
	}
}

// WithStore sets the conversation store.
func WithStore(provider store.Provider) Option {
	return func(o *Config) {
		o.Store = provider
	}
}

// WithMaxToolCalls bounds the number of tool executions in a single run.
func WithMaxToolCalls(maxToolCalls int) Option {
	return func(o *Config) {
		o.MaxToolCalls = maxToolCalls
	}
}

// WithMaxMessages bounds the number of messages sent to the LLM.
func WithMaxMessages(maxMessages int) Option {
	return func(o *Config) {
		o.MaxMessages = maxMessages
	}
}

// WithMaxContentSize bounds the total content bytes sent to the LLM.
func WithMaxContentSize(maxContentSize int) Option {
	return func(o *Config) {
		o.MaxContentSize = maxContentSize
	}
}

// WithSkipMessageHistory is an option that allows to skip adding run messages to the Store.
func WithSkipMessageHistory(skip bool) Option {
	return func(o *Config) {
		o.SkipMessageHistory = skip
	}
}

// GetCallOptions converts the set LLM parameters to call options.
func (c *Config) GetCallOptions() []llms.CallOption {
	var callOptions []llms.CallOption
	if c.modelSet {
		callOptions = append(callOptions, llms.WithModel(c.Model))
	}
	if c.maxTokensSet {
		callOptions = append(callOptions, llms.WithMaxTokens(c.MaxTokens))
	}
	if c.temperatureSet {
		callOptions = append(callOptions, llms.WithTemperature(c.Temperature))
	}
	if c.stopWordsSet {
		callOptions = append(callOptions, llms.WithStopWords(c.StopWords))
	}
	if c.topkSet {
		callOptions = append(callOptions, llms.WithTopK(c.TopK))
	}
	if c.toppSet {
		callOptions = append(callOptions, llms.WithTopP(c.TopP))
	}
	if c.seedSet {
		callOptions = append(callOptions, llms.WithSeed(c.Seed))
	}
	return callOptions
}
