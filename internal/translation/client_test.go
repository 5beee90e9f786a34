package translation_test

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

	"rw-translator/internal/translation"
)

var req = translation.Request{SystemPrompt: "be a translator", UserPrompt: "Text to translate:\nTank"}

func TestGeminiTranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		system := body["systemInstruction"].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"]
		assert.Equal(t, "be a translator", system)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" Pan"},{"text":"zer \n"}]}}],
			"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":1}}`))
	}))
	defer srv.Close()

	c := translation.NewGeminiClient("secret", "gemini-test", translation.WithBaseURL(srv.URL))
	assert.Equal(t, "gemini", c.Name())

	out, err := c.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Panzer", out)
}

func TestGeminiErrors(t *testing.T) {
	t.Parallel()

	f := func(name string, status int, body string, wantHits int32) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(status)
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c := translation.NewGeminiClient("k", "m",
				translation.WithBaseURL(srv.URL),
				translation.WithRetry(3, time.Millisecond))
			_, err := c.Translate(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, translation.ErrProvider)
			assert.Equal(t, wantHits, hits.Load())
		})
	}

	f("bad request is not retried", http.StatusBadRequest, `{"error":"bad"}`, 1)
	f("rate limit is retried", http.StatusTooManyRequests, `slow down`, 3)
	f("server error is retried", http.StatusInternalServerError, `oops`, 3)
	f("no candidates", http.StatusOK, `{"candidates":[]}`, 1)
	f("error body", http.StatusOK, `{"error":{"code":400,"message":"nope","status":"INVALID"}}`, 1)
}

func TestRetryRecovers(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	c := translation.NewGeminiClient("k", "m",
		translation.WithBaseURL(srv.URL),
		translation.WithRetry(3, time.Millisecond))
	out, err := c.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), hits.Load())
}

func TestOpenAITranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, req.UserPrompt, body.Messages[1].Content)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Panzer\n"}}],"usage":{"prompt_tokens":5}}`))
	}))
	defer srv.Close()

	c := translation.NewOpenAIClient("sk-test", "gpt-test", srv.URL+"/v1/")
	assert.Equal(t, "openai", c.Name())

	out, err := c.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Panzer", out)
}

func TestOpenAICancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := translation.NewOpenAIClient("k", "m", srv.URL, translation.WithRetry(3, time.Hour))
	_, err := c.Translate(ctx, req)
	require.ErrorIs(t, err, context.Canceled)
}
