package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completion is one "generate text from a prompt" request.
type Completion struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Completer turns a prompt into plain text.
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

const DefaultBaseURL = "https://api.groq.com/openai/v1"

// GroqCompleter talks to an OpenAI-compatible chat completions endpoint.
type GroqCompleter struct {
	client *openai.Client
}

func NewGroqCompleter(baseURL, apiKey string, timeout time.Duration) *GroqCompleter {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &GroqCompleter{client: openai.NewClientWithConfig(cfg)}
}

func (g *GroqCompleter) Complete(ctx context.Context, c Completion) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.Model,
		Temperature: float32(c.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: c.Prompt},
		},
	})
	if err != nil {
		return "", completionErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("malformed response: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// completionErr keeps the status code and the service's own message, which
// end up in front of the user.
func completionErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return fmt.Errorf("status %d", apiErr.HTTPStatusCode)
		}
		return fmt.Errorf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("status %d", reqErr.HTTPStatusCode)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("malformed response: %w", err)
	}
	return err
}
