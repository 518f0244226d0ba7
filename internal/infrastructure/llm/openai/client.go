package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/resilience"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
	logger     *slog.Logger
}

type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Executor *resilience.Executor
	Logger   *slog.Logger
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		executor:   cfg.Executor,
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Generate sends one chat completion. The persona travels as the system
// message; prompts carry it again as their first line.
func (c *Client) Generate(ctx context.Context, systemInstruction, userPrompt string, params domain.EngineParams) (string, error) {
	const operation = "openai.generate"
	if strings.TrimSpace(c.apiKey) == "" {
		return "", domain.WrapError(domain.ErrEngineFailed, operation, errors.New("OPENAI_API_KEY is not configured"))
	}

	requestID := uuid.NewString()
	c.logger.Debug("engine.generate.start",
		"request_id", requestID,
		"model", c.model,
		"prompt_chars", len(userPrompt),
	)

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userPrompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxOutputTokens,
	}

	var response chatResponse
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/chat/completions", payload, &response, operation)
	}

	started := time.Now()
	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyEngineError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		c.logger.Warn("engine.generate.failed",
			"request_id", requestID,
			"model", c.model,
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err,
		)
		return "", wrapEngineError(operation, err)
	}

	if len(response.Choices) == 0 {
		return "", domain.WrapError(domain.ErrEngineFailed, operation, errors.New("no choices in response"))
	}
	content := strings.TrimSpace(response.Choices[0].Message.Content)
	c.logger.Debug("engine.generate.done",
		"request_id", requestID,
		"model", c.model,
		"duration_ms", time.Since(started).Milliseconds(),
		"content_chars", len(content),
	)
	return content, nil
}
