package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel   = "gpt-3.5-turbo"
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 15 * time.Second
)

// The assistant persona the widget exposes: a French divorce-law helper that
// always points users toward a real lawyer for specifics.
const defaultSystemPrompt = "Tu es un assistant juridique spécialisé en droit du divorce français. " +
	"Réponds de manière claire, précise et professionnelle. Donne des conseils juridiques généraux " +
	"mais recommande toujours de consulter un avocat pour des cas spécifiques."

// OpenAIOptions configures an OpenAICompleter.
type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	SystemPrompt string
	HTTPClient   *http.Client
}

// OpenAICompleter calls the OpenAI chat-completions API.
type OpenAICompleter struct {
	apiKey       string
	model        string
	baseURL      string
	systemPrompt string
	client       *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAICompleter(opts OpenAIOptions) (*OpenAICompleter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	systemPrompt := strings.TrimSpace(opts.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &OpenAICompleter{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		systemPrompt: systemPrompt,
		client:       client,
	}, nil
}

// Complete sends a single question and returns the model's answer. Any
// non-2xx status, transport error, or empty choice list is an error; there is
// no retry and no fallback.
func (o *OpenAICompleter) Complete(ctx context.Context, message string) (string, error) {
	payload := chatRequest{
		Model:       o.model,
		Temperature: 0.2,
		MaxTokens:   500,
		Messages: []chatMessage{
			{Role: "system", Content: o.systemPrompt},
			{Role: "user", Content: message},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call openai: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	answer := strings.TrimSpace(out.Choices[0].Message.Content)
	if answer == "" {
		return "", errors.New("empty answer")
	}
	return answer, nil
}

var _ Completer = (*OpenAICompleter)(nil)
