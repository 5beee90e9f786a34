package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	apiKey string
	model  string
	httpClient
}

// NewOpenAIClient creates a chat completions client. An empty baseURL uses
// the public OpenAI endpoint.
func NewOpenAIClient(apiKey, model, baseURL string, opts ...Option) *OpenAIClient {
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		model:      model,
		httpClient: newHTTPClient(strings.TrimRight(baseURL, "/"), opts),
	}
}

// --- OpenAI-compatible request/response types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (oc *OpenAIClient) Name() string { return "openai" }

// Translate sends req as a system and a user message.
func (oc *OpenAIClient) Translate(ctx context.Context, req Request) (string, error) {
	reqBody := chatRequest{
		Model: oc.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: 0.3,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+oc.apiKey)

	return oc.withRetry(ctx, func() (string, error) {
		respBody, err := oc.postJSON(ctx, oc.baseURL+"/chat/completions", bodyBytes, header)
		if err != nil {
			return "", err
		}

		var chatResp chatResponse
		if err := json.Unmarshal(respBody, &chatResp); err != nil {
			return "", fmt.Errorf("unmarshal chat response: %w", err)
		}

		if chatResp.Error != nil {
			return "", fmt.Errorf("%w: API error [%s]: %s", ErrProvider, chatResp.Error.Type, chatResp.Error.Message)
		}

		if len(chatResp.Choices) == 0 {
			return "", fmt.Errorf("%w: empty response: no choices", ErrProvider)
		}

		log.Debug().
			Int("prompt_tokens", chatResp.Usage.PromptTokens).
			Int("output_tokens", chatResp.Usage.CompletionTokens).
			Msg("Translation complete")

		return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
	})
}
