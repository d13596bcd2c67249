// Package config loads the service configuration: the HTTP listener,
// CORS policy, chat model providers, chat history store and the
// upstream API keys. Values support ${ENV} expansion.
package config

import (
	"github.com/effective-security/x/configloader"

	"github.com/aidekit/aidekit/pkg/llmfactory"
)

// DefaultListen is the address of the HTTP server when the
// configuration does not set one.
const DefaultListen = ":8000"

// Config is the service configuration.
type Config struct {
	// Listen is the host:port the HTTP server binds to.
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"`

	// CORS configures cross origin requests of the API.
	CORS CORS `json:"cors,omitempty" yaml:"cors,omitempty"`

	// LLM configures the chat model providers behind the agent. With
	// neither a file nor inline providers the agent routes are
	// disabled and the tool routes still serve.
	LLM LLM `json:"llm,omitempty" yaml:"llm,omitempty"`

	// Redis configures the chat history store. Without an address the
	// history is kept in memory.
	Redis Redis `json:"redis,omitempty" yaml:"redis,omitempty"`

	// Keys carries the upstream API keys used by the tools. Keys set
	// here are exported to the process environment on startup, so the
	// tools and the agent see them the same way.
	Keys Keys `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// CORS configures cross origin requests.
type CORS struct {
	// AllowedOrigins lists the allowed origins. Empty allows all.
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// LLM configures the chat model providers.
type LLM struct {
	// ConfigFile points at an llmfactory configuration file.
	ConfigFile string `json:"config_file,omitempty" yaml:"config_file,omitempty"`

	// Config declares the providers inline. Used when ConfigFile is
	// not set.
	Config *llmfactory.Config `json:"config,omitempty" yaml:"config,omitempty"`
}

// Redis configures the chat history store.
type Redis struct {
	// Addr is the host:port of the Redis server.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Password of the Redis user, if any.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// DB selects the logical Redis database.
	DB int `json:"db,omitempty" yaml:"db,omitempty"`

	// KeyPrefix namespaces the chat keys.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
}

// Keys carries the upstream API keys.
type Keys struct {
	// Tavily is the search API key, TAVILY_API_KEY.
	Tavily string `json:"tavily,omitempty" yaml:"tavily,omitempty"`

	// OpenAI is the OpenAI API key, OPENAI_API_KEY.
	OpenAI string `json:"openai,omitempty" yaml:"openai,omitempty"`

	// ModelsLab is the music generation API key, MODELSLAB_API_KEY.
	ModelsLab string `json:"models_lab,omitempty" yaml:"models_lab,omitempty"`
}

// Load reads the configuration from file. An empty location returns
// the defaults.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		err := configloader.UnmarshalAndExpand(file, cfg)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	return cfg, nil
}
