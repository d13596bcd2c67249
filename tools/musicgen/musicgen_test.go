package musicgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/tools/musicgen"
)

const missingKeysGuidance = `Error: Missing API keys. To generate music, you need both OpenAI and ModelsLab API keys.

Please provide:
1. OpenAI API key (for the AI agent)
2. ModelsLab API key (for music generation)

You can set them as environment variables:
- OPENAI_API_KEY
- MODELSLAB_API_KEY

Or provide them directly when calling this tool.`

// newMusicServer fakes both the OpenAI Responses API and the ModelsLab
// generation API on one listener.
func newMusicServer(t *testing.T, enriched string, enrichFails bool, mlResponse string, mlPrompts *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/responses":
			if enrichFails {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var req struct {
				Instructions string `json:"instructions"`
				Input        string `json:"input"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.Instructions)
			assert.NotEmpty(t, req.Input)
			resp := map[string]any{
				"id":     "resp_1",
				"object": "response",
				"status": "completed",
				"model":  "gpt-4o",
				"output": []map[string]any{
					{
						"type":   "message",
						"id":     "msg_1",
						"status": "completed",
						"role":   "assistant",
						"content": []map[string]any{
							{"type": "output_text", "text": enriched, "annotations": []any{}},
						},
					},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		case "/voice/music_gen":
			var req struct {
				Key    string `json:"key"`
				Prompt string `json:"prompt"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.Key)
			*mlPrompts = append(*mlPrompts, req.Prompt)
			_, _ = w.Write([]byte(mlResponse))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
}

func newToolkit(t *testing.T, srv *httptest.Server) *musicgen.Toolkit {
	t.Helper()
	k, err := musicgen.New(
		musicgen.WithOpenAIBaseURL(srv.URL),
		musicgen.WithModelsLabBaseURL(srv.URL),
		musicgen.WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)
	return k
}

func TestGenerateMusic(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fake-openai-key")
	t.Setenv("MODELSLAB_API_KEY", "fake-ml-key")

	var mlPrompts []string
	srv := newMusicServer(t, "A rich upbeat jazz piece with brushed drums and walking bass.", false,
		`{"status": "success", "id": 5, "output": ["https://cdn.example.com/jazz.mp3"]}`, &mlPrompts)
	defer srv.Close()

	k := newToolkit(t, srv)

	res, err := k.Generate.Run(context.Background(), &musicgen.GenerateRequest{Prompt: "upbeat jazz"})
	require.NoError(t, err)
	assert.Equal(t, "upbeat jazz", res.Prompt)

	exp := "🎵 Music generated successfully!\n\n" +
		"**Prompt**: upbeat jazz\n" +
		"**Audio URL**: https://cdn.example.com/jazz.mp3\n\n" +
		"The music has been generated. You can play it using any audio player that supports MP3 files."
	assert.Equal(t, exp, res.Result)

	// the generation request carries the rewritten prompt
	require.Len(t, mlPrompts, 1)
	assert.Equal(t, "A rich upbeat jazz piece with brushed drums and walking bass.", mlPrompts[0])
}

func TestGenerateMusic_EnrichmentFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fake-openai-key")
	t.Setenv("MODELSLAB_API_KEY", "fake-ml-key")

	var mlPrompts []string
	srv := newMusicServer(t, "", true,
		`{"status": "success", "id": 5, "output": ["https://cdn.example.com/out.mp3"]}`, &mlPrompts)
	defer srv.Close()

	k := newToolkit(t, srv)

	res, err := k.Generate.Run(context.Background(), &musicgen.GenerateRequest{Prompt: "calm piano"})
	require.NoError(t, err)
	assert.Contains(t, res.Result, "🎵 Music generated successfully!")

	// the raw prompt is used when the rewrite fails
	require.Len(t, mlPrompts, 1)
	assert.Equal(t, "calm piano", mlPrompts[0])
}

func TestGenerateMusic_MissingKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MODELSLAB_API_KEY", "")

	k, err := musicgen.New()
	require.NoError(t, err)

	res, err := k.Generate.Run(context.Background(), &musicgen.GenerateRequest{Prompt: "anything"})
	require.NoError(t, err)
	assert.Equal(t, missingKeysGuidance, res.Result)

	// a request-level key for one service is not enough
	res, err = k.Generate.Run(context.Background(), &musicgen.GenerateRequest{
		Prompt:          "anything",
		OpenAIAPIKey:    "fake-openai-key",
		ModelsLabAPIKey: "",
	})
	require.NoError(t, err)
	assert.Equal(t, missingKeysGuidance, res.Result)
}

func TestGenerateMusic_NoAudio(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fake-openai-key")
	t.Setenv("MODELSLAB_API_KEY", "fake-ml-key")

	var mlPrompts []string
	srv := newMusicServer(t, "detailed prompt", false, `{"status": "success", "id": 5, "output": []}`, &mlPrompts)
	defer srv.Close()

	k := newToolkit(t, srv)

	res, err := k.Generate.Run(context.Background(), &musicgen.GenerateRequest{Prompt: "silence"})
	require.NoError(t, err)
	assert.Equal(t, "No audio was generated. Please try again with a different prompt.", res.Result)
}

func TestGenerateMusic_Error(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fake-openai-key")
	t.Setenv("MODELSLAB_API_KEY", "fake-ml-key")

	var mlPrompts []string
	srv := newMusicServer(t, "detailed prompt", false, `{"status": "error", "message": "prompt rejected"}`, &mlPrompts)
	defer srv.Close()

	k := newToolkit(t, srv)

	_, err := k.Generate.Run(context.Background(), &musicgen.GenerateRequest{Prompt: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Error generating music: music generation failed: prompt rejected", err.Error())

	_, err = k.Generate.Run(context.Background(), &musicgen.GenerateRequest{})
	assert.EqualError(t, err, "invalid request: empty prompt")
}

func TestGenerateMusic_Call(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MODELSLAB_API_KEY", "")

	k, err := musicgen.New()
	require.NoError(t, err)

	out, err := k.Generate.Call(context.Background(), `{"prompt": "ambient pads"}`)
	require.NoError(t, err)
	assert.Equal(t, missingKeysGuidance, out)

	_, err = k.Generate.Call(context.Background(), "not json")
	assert.ErrorIs(t, err, chatmodel.ErrFailedUnmarshalInput)
}

func TestMusicStatus(t *testing.T) {
	k, err := musicgen.New()
	require.NoError(t, err)

	t.Setenv("OPENAI_API_KEY", "fake-openai-key")
	t.Setenv("MODELSLAB_API_KEY", "fake-ml-key")

	res, err := k.Status.Run(context.Background(), &musicgen.StatusRequest{})
	require.NoError(t, err)
	exp := "🎵 Music Generation Status:\n\n" +
		"✅ OpenAI API key: Configured\n" +
		"✅ ModelsLab API key: Configured\n" +
		"\n🎉 Music generation is ready to use!"
	assert.Equal(t, exp, res.Result)

	t.Setenv("MODELSLAB_API_KEY", "")

	res, err = k.Status.Run(context.Background(), &musicgen.StatusRequest{})
	require.NoError(t, err)
	exp = "🎵 Music Generation Status:\n\n" +
		"✅ OpenAI API key: Configured\n" +
		"❌ ModelsLab API key: Not configured\n" +
		"\n⚠️ Please configure API keys to enable music generation."
	assert.Equal(t, exp, res.Result)
}

func TestToolkitTools(t *testing.T) {
	k, err := musicgen.New()
	require.NoError(t, err)

	list := k.Tools()
	require.Len(t, list, 2)
	assert.Equal(t, "generate_music", list[0].Name())
	assert.Equal(t, "get_music_generation_status", list[1].Name())

	for _, tool := range list {
		assert.NotEmpty(t, tool.Description())
		assert.NotNil(t, tool.Parameters())
	}
}
