package modelslab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voice/music_gen", r.URL.Path)

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "fake-key", req.Key)
		assert.Equal(t, "upbeat jazz", req.Prompt)
		assert.False(t, req.Base64)

		_, _ = w.Write([]byte(`{"status": "success", "id": 42, "output": ["https://cdn.example.com/music.mp3"]}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	resp, err := client.Generate(context.Background(), &GenerateRequest{Key: "fake-key", Prompt: "upbeat jazz"})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Output, 1)
	assert.Equal(t, "https://cdn.example.com/music.mp3", resp.Output[0])
}

func Test_GenerateAndWait(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			assert.Equal(t, "/voice/music_gen", r.URL.Path)
			_, _ = w.Write([]byte(`{"status": "processing", "id": 7, "eta": 1}`))
		case 2:
			assert.Equal(t, "/voice/fetch/7", r.URL.Path)
			_, _ = w.Write([]byte(`{"status": "processing", "id": 7, "eta": 1}`))
		default:
			_, _ = w.Write([]byte(`{"status": "success", "id": 7, "output": ["https://cdn.example.com/out.mp3"]}`))
		}
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL), WithPollInterval(time.Millisecond))
	resp, err := client.GenerateAndWait(context.Background(), "fake-key", "lofi beat")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"https://cdn.example.com/out.mp3"}, resp.Output)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func Test_GenerateAndWait_Failed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error", "messege": "invalid api key"}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL), WithPollInterval(time.Millisecond))
	_, err := client.GenerateAndWait(context.Background(), "bad-key", "anything")
	assert.EqualError(t, err, "music generation failed: invalid api key")
}

func Test_GenerateAndWait_Canceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "processing", "id": 9, "eta": 30}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(WithBaseURL(srv.URL), WithPollInterval(time.Minute))
	_, err := client.GenerateAndWait(ctx, "fake-key", "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Generate_StatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	_, err := client.Generate(context.Background(), &GenerateRequest{Key: "k", Prompt: "p"})
	assert.EqualError(t, err, "API returned unexpected status code: 503")
}
