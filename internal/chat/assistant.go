package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Responder produces an assistant reply to a user message
type Responder interface {
	Reply(ctx context.Context, userID, message string) (string, error)
}

// turn is a single message in a conversation
type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const systemPrompt = `You are the OpinionDesk assistant. You help staff track opinions ` +
	`through the review workflow: finding requests, explaining statuses and ` +
	`summarizing submissions. Answer briefly and concretely.`

// AssistantClient calls an OpenAI-compatible chat API, keeping a
// bounded per-user conversation history.
type AssistantClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxHistory int
	httpClient *http.Client

	mu            sync.Mutex
	conversations map[string][]turn
}

// AssistantConfig configures the assistant API client
type AssistantConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxHistory int
}

// NewAssistantClient creates an assistant client from config
func NewAssistantClient(cfg AssistantConfig) *AssistantClient {
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &AssistantClient{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		maxHistory:    maxHistory,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		conversations: make(map[string][]turn),
	}
}

// Reply sends the user message with conversation history and returns
// the assistant's answer.
func (c *AssistantClient) Reply(ctx context.Context, userID, message string) (string, error) {
	c.mu.Lock()
	history := append(c.conversations[userID], turn{Role: "user", Content: message})
	messages := make([]turn, 0, len(history)+1)
	messages = append(messages, turn{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	c.mu.Unlock()

	reply, err := c.callAPI(ctx, messages)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	history = append(history, turn{Role: "assistant", Content: reply})
	if len(history) > c.maxHistory*2 {
		history = history[len(history)-c.maxHistory*2:]
	}
	c.conversations[userID] = history
	c.mu.Unlock()

	return reply, nil
}

func (c *AssistantClient) callAPI(ctx context.Context, messages []turn) (string, error) {
	payload := map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant API returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("assistant API returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// EchoResponder is the fallback when no assistant API is configured:
// it acknowledges the message so the channel still round-trips.
type EchoResponder struct{}

// Reply returns a canned acknowledgement
func (EchoResponder) Reply(_ context.Context, _ string, message string) (string, error) {
	return fmt.Sprintf("The assistant is not configured. Your message was received: %q", message), nil
}
