package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	TokenEnvVarName = "ANTHROPIC_API_KEY" //nolint:gosec
	ModelEnvVarName = "ANTHROPIC_MODEL"   //nolint:gosec
)

// Options collects the client settings. Token and Model fall back to the
// ANTHROPIC_API_KEY and ANTHROPIC_MODEL environment variables.
type Options struct {
	Token      string
	Model      string
	BaseURL    string
	HTTPClient option.HTTPClient

	// AnthropicBetaHeader is sent as the 'anthropic-beta' request header
	// when set, enabling beta features.
	AnthropicBetaHeader string
}

type Option func(*Options)

// WithToken sets the API token.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel sets the default model for calls that do not name one.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL points the client at a different API endpoint, such as a
// proxy or a test server.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithHTTPClient replaces http.DefaultClient for API requests.
func WithHTTPClient(client option.HTTPClient) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithAnthropicBetaHeader sets the 'anthropic-beta' request header.
func WithAnthropicBetaHeader(value string) Option {
	return func(opts *Options) {
		opts.AnthropicBetaHeader = value
	}
}
