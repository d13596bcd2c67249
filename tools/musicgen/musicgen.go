// Package musicgen provides music generation tools backed by the
// ModelsLab API. Requests are first rewritten into detailed music
// prompts by an OpenAI model.
package musicgen

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/responses"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llms/openai"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/musicgen/internal/modelslab"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "musicgen")

// Tool names, as exposed to the agent.
const (
	GenerateToolName = "generate_music"
	StatusToolName   = "get_music_generation_status"
)

// defaultModel rewrites user requests into music generation prompts.
const defaultModel = "gpt-4o"

const missingKeysGuidance = `Error: Missing API keys. To generate music, you need both OpenAI and ModelsLab API keys.

Please provide:
1. OpenAI API key (for the AI agent)
2. ModelsLab API key (for music generation)

You can set them as environment variables:
- OPENAI_API_KEY
- MODELSLAB_API_KEY

Or provide them directly when calling this tool.`

const enrichSystemPrompt = `You are an AI agent that generates music using the ModelsLab API.
Rewrite the user's request into a detailed music generation prompt that specifies:
- The genre and style of music (e.g., classical, jazz, electronic)
- The instruments and sounds to include
- The tempo, mood and emotional qualities
- The structure (intro, verses, chorus, bridge, etc.)
Create a rich, descriptive prompt that captures the desired musical elements.
Focus on high-quality, complete instrumental pieces.
Respond with the rewritten prompt only.`

// Report is the formatted output of a music tool.
type Report struct {
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Result string `json:"result" yaml:"result"`
}

// GetContent implements the chatmodel.ContentProvider interface.
func (r *Report) GetContent() string {
	return r.Result
}

// tool carries the descriptor shared by the music tools.
type tool struct {
	name        string
	description string
	funcParams  *jsonschema.Schema
}

// Name returns the name of the tool.
func (t *tool) Name() string {
	return t.name
}

// Description returns the description of the tool.
func (t *tool) Description() string {
	return t.description
}

// Parameters returns the JSON schema of the tool input.
func (t *tool) Parameters() *jsonschema.Schema {
	return t.funcParams
}

// GenerateRequest is the input of the music generation tool. API keys
// fall back to the OPENAI_API_KEY and MODELSLAB_API_KEY environment
// variables.
type GenerateRequest struct {
	Prompt          string `json:"prompt" yaml:"prompt" jsonschema:"title=Prompt,description=Detailed description of the music to generate; genre; style; instruments; mood."`
	OpenAIAPIKey    string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty" jsonschema:"title=OpenAI API Key,description=Optional OpenAI API key override."`
	ModelsLabAPIKey string `json:"models_lab_api_key,omitempty" yaml:"models_lab_api_key,omitempty" jsonschema:"title=ModelsLab API Key,description=Optional ModelsLab API key override."`
}

// GenerateMusicTool generates music from a text prompt.
type GenerateMusicTool struct {
	tool

	client        *modelslab.Client
	model         string
	openaiBaseURL string
	httpClient    *http.Client
}

var _ tools.Tool[GenerateRequest, Report] = (*GenerateMusicTool)(nil)

// newGenerateMusic creates the music generation tool.
func newGenerateMusic(client *modelslab.Client, model, openaiBaseURL string, httpClient *http.Client) (*GenerateMusicTool, error) {
	sc, err := schema.New(reflect.TypeOf(GenerateRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &GenerateMusicTool{
		tool: tool{
			name:        GenerateToolName,
			description: "Generate music using the ModelsLab API. Use this when users want to create music, generate audio, compose songs, or create musical content. The tool can create various genres like classical, jazz, electronic, pop, rock, ambient, and more.",
			funcParams:  sc.Parameters,
		},
		client:        client,
		model:         model,
		openaiBaseURL: openaiBaseURL,
		httpClient:    httpClient,
	}, nil
}

// Run generates music for the prompt. Missing API keys produce a
// guidance message rather than an error, so the agent can relay the
// setup instructions.
func (t *GenerateMusicTool) Run(ctx context.Context, req *GenerateRequest) (*Report, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("invalid request: empty prompt")
	}

	openaiKey := req.OpenAIAPIKey
	if openaiKey == "" {
		openaiKey = os.Getenv("OPENAI_API_KEY")
	}
	modelsLabKey := req.ModelsLabAPIKey
	if modelsLabKey == "" {
		modelsLabKey = os.Getenv("MODELSLAB_API_KEY")
	}
	if openaiKey == "" || modelsLabKey == "" {
		return &Report{Prompt: prompt, Result: missingKeysGuidance}, nil
	}

	enriched, err := t.enrichPrompt(ctx, openaiKey, prompt)
	if err != nil {
		// fall back to the raw prompt
		logger.ContextKV(ctx, xlog.WARNING, "reason", "prompt_enrichment_failed", "err", err.Error())
		enriched = prompt
	}

	resp, err := t.client.GenerateAndWait(ctx, modelsLabKey, enriched)
	if err != nil {
		return nil, errors.WithMessage(err, "Error generating music")
	}
	if len(resp.Output) == 0 {
		return &Report{Prompt: prompt, Result: "No audio was generated. Please try again with a different prompt."}, nil
	}

	result := fmt.Sprintf("🎵 Music generated successfully!\n\n**Prompt**: %s\n**Audio URL**: %s\n\nThe music has been generated. You can play it using any audio player that supports MP3 files.",
		prompt, resp.Output[0])
	return &Report{Prompt: prompt, Result: result}, nil
}

// enrichPrompt rewrites the user request into a detailed music prompt
// through the Responses API.
func (t *GenerateMusicTool) enrichPrompt(ctx context.Context, apikey, prompt string) (string, error) {
	opts := []openai.Option{
		openai.WithToken(apikey),
		openai.WithModel(t.model),
	}
	if t.openaiBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(t.openaiBaseURL))
	}
	if t.httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(t.httpClient))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return "", err
	}

	resp, err := llm.CreateResponse(ctx, &responses.ResponseNewParams{
		Instructions: param.NewOpt(enrichSystemPrompt),
		Input:        responses.ResponseNewParamsInputUnion{OfString: param.NewOpt(prompt)},
	})
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(resp.OutputText()); text != "" {
		return text, nil
	}
	return "", errors.New("no content in response")
}

// Call implements the tools.ITool interface.
func (t *GenerateMusicTool) Call(ctx context.Context, input string) (string, error) {
	var req GenerateRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}

// StatusRequest is the input of the status tool. The tool takes no
// arguments.
type StatusRequest struct{}

// MusicStatusTool reports whether music generation is configured.
type MusicStatusTool struct {
	tool
}

var _ tools.Tool[StatusRequest, Report] = (*MusicStatusTool)(nil)

// newMusicStatus creates the music status tool.
func newMusicStatus() (*MusicStatusTool, error) {
	sc, err := schema.New(reflect.TypeOf(StatusRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &MusicStatusTool{
		tool: tool{
			name:        StatusToolName,
			description: "Check the status of music generation capabilities and API key availability. Use this to verify if music generation is properly configured.",
			funcParams:  sc.Parameters,
		},
	}, nil
}

// Run reports the API key configuration status.
func (t *MusicStatusTool) Run(_ context.Context, _ *StatusRequest) (*Report, error) {
	openaiKey := os.Getenv("OPENAI_API_KEY")
	modelsLabKey := os.Getenv("MODELSLAB_API_KEY")

	var b strings.Builder
	b.WriteString("🎵 Music Generation Status:\n\n")
	if openaiKey != "" {
		b.WriteString("✅ OpenAI API key: Configured\n")
	} else {
		b.WriteString("❌ OpenAI API key: Not configured\n")
	}
	if modelsLabKey != "" {
		b.WriteString("✅ ModelsLab API key: Configured\n")
	} else {
		b.WriteString("❌ ModelsLab API key: Not configured\n")
	}
	if openaiKey != "" && modelsLabKey != "" {
		b.WriteString("\n🎉 Music generation is ready to use!")
	} else {
		b.WriteString("\n⚠️ Please configure API keys to enable music generation.")
	}

	return &Report{Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *MusicStatusTool) Call(ctx context.Context, input string) (string, error) {
	var req StatusRequest
	if input != "" {
		if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
			return "", chatmodel.ErrFailedUnmarshalInput
		}
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
