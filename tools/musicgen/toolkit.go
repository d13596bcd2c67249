package musicgen

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/musicgen/internal/modelslab"
)

// Toolkit bundles the music generation tools.
type Toolkit struct {
	Generate *GenerateMusicTool
	Status   *MusicStatusTool
}

type options struct {
	model            string
	openaiBaseURL    string
	modelsLabBaseURL string
	httpClient       *http.Client
	pollInterval     time.Duration
}

// Option configures the toolkit.
type Option func(*options)

// WithModel overrides the model used to rewrite music prompts.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithOpenAIBaseURL overrides the OpenAI API base URL.
func WithOpenAIBaseURL(baseURL string) Option {
	return func(o *options) {
		o.openaiBaseURL = baseURL
	}
}

// WithModelsLabBaseURL overrides the ModelsLab API base URL.
func WithModelsLabBaseURL(baseURL string) Option {
	return func(o *options) {
		o.modelsLabBaseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client used by both APIs.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithPollInterval overrides the generation poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(o *options) {
		o.pollInterval = interval
	}
}

// New creates the music toolkit.
func New(opts ...Option) (*Toolkit, error) {
	o := options{
		model: defaultModel,
	}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []modelslab.Option{}
	if o.modelsLabBaseURL != "" {
		clientOpts = append(clientOpts, modelslab.WithBaseURL(o.modelsLabBaseURL))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, modelslab.WithHTTPClient(o.httpClient))
	}
	if o.pollInterval > 0 {
		clientOpts = append(clientOpts, modelslab.WithPollInterval(o.pollInterval))
	}
	client := modelslab.New(clientOpts...)

	k := &Toolkit{}
	var err error
	if k.Generate, err = newGenerateMusic(client, o.model, o.openaiBaseURL, o.httpClient); err != nil {
		return nil, errors.WithMessage(err, "failed to create music generation tool")
	}
	if k.Status, err = newMusicStatus(); err != nil {
		return nil, errors.WithMessage(err, "failed to create music status tool")
	}
	return k, nil
}

// Tools returns the toolkit tools in registration order.
func (k *Toolkit) Tools() []tools.ITool {
	return []tools.ITool{
		k.Generate,
		k.Status,
	}
}
