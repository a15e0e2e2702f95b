// internal/generator/openai.go
//
// OpenAI-backed weekly task generator. One request per invocation, no
// internal retries: a failed generation is surfaced and the caller decides
// whether to try again (the week transition is never rolled back).

package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NemiSanghvi/Better-You/internal/journey"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second

	generationTemperature = 0.7
)

// GenerationError wraps any failure to produce a valid week of tasks: HTTP
// transport errors, API error payloads, and malformed task lists.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generator: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generator: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Request carries the generation context for one week.
type Request struct {
	WeekNumber    int
	TotalWeeks    int
	PreviousTasks []journey.Task
	Intent        string
	Companion     journey.Companion
}

// Client talks to the OpenAI chat-completions API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// ClientOption customizes Client construction for tests and alternate
// endpoints.
type ClientOption func(*Client)

// WithBaseURL points the client at a different completions endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel overrides the completion model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient substitutes the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient creates a generator client using the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// rawTask is the shape the model is instructed to return.
type rawTask struct {
	Day  int    `json:"day"`
	Task string `json:"task"`
}

// GenerateWeek asks the model for exactly seven day-tagged tasks. The
// returned tasks carry Day and Text only; the engine assigns dates and
// completion state at commit time.
func (c *Client) GenerateWeek(ctx context.Context, req Request) ([]journey.Task, error) {
	if c.apiKey == "" {
		return nil, &GenerationError{Reason: "OPENAI_API_KEY not set"}
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: buildWeekPrompt(req)},
		{Role: "user", Content: fmt.Sprintf("Generate 7 daily tasks for week %d.", req.WeekNumber)},
	})
	if err != nil {
		return nil, err
	}

	raw, err := parseTaskList(content)
	if err != nil {
		return nil, err
	}

	tasks := make([]journey.Task, len(raw))
	for i, rt := range raw {
		tasks[i] = journey.Task{Day: rt.Day, Text: strings.TrimSpace(rt.Task)}
	}
	if err := journey.ValidateBatch(tasks); err != nil {
		return nil, &GenerationError{Reason: "malformed task list", Err: err}
	}
	return tasks, nil
}

// Chat sends a one-off message in the companion's voice. Used by the home
// screen's check-in prompt.
func (c *Client) Chat(ctx context.Context, profile journey.Profile, message string) (string, error) {
	if c.apiKey == "" {
		return "", &GenerationError{Reason: "OPENAI_API_KEY not set"}
	}
	system := fmt.Sprintf("%s User intent: %s", profile.Companion.Description(), profile.Intent)
	return c.complete(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: message},
	})
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: generationTemperature,
	})
	if err != nil {
		return "", &GenerationError{Reason: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Reason: "build request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &GenerationError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Reason: "read response", Err: err}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &GenerationError{
			Reason: fmt.Sprintf("unparseable response (HTTP %d)", resp.StatusCode),
			Err:    err,
		}
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", &GenerationError{Reason: parsed.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{Reason: fmt.Sprintf("API error (HTTP %d)", resp.StatusCode)}
	}
	if len(parsed.Choices) == 0 {
		return "", &GenerationError{Reason: "empty completion"}
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseTaskList strips markdown code fences the model sometimes wraps its
// output in, then decodes the JSON array.
func parseTaskList(content string) ([]rawTask, error) {
	content = stripCodeFences(content)
	var raw []rawTask
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, &GenerationError{Reason: "task list is not valid JSON", Err: err}
	}
	return raw, nil
}

func stripCodeFences(content string) string {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
	} else {
		return strings.TrimSpace(content)
	}
	if end := strings.Index(content, "```"); end >= 0 {
		content = content[:end]
	}
	return strings.TrimSpace(content)
}
