package server

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"vibe_studio/internal/config"
)

// Completer is the slice of the OpenAI client the generator needs
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// UpstreamError wraps a failure talking to the model server
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Generator turns prompts into files with a chat model
type Generator struct {
	client      Completer
	model       string
	temperature float32
	log         *logrus.Logger
}

// NewGenerator targets the OpenAI-compatible API an Ollama host exposes
func NewGenerator(cfg config.ServerConfig, log *logrus.Logger) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.OllamaHost, "/") + "/v1"
	return NewGeneratorWithClient(openai.NewClientWithConfig(clientCfg), cfg.Model, cfg.Temperature, log)
}

// NewGeneratorWithClient uses an existing completion client
func NewGeneratorWithClient(client Completer, model string, temperature float32, log *logrus.Logger) *Generator {
	return &Generator{
		client:      client,
		model:       model,
		temperature: temperature,
		log:         log,
	}
}

// Generate asks the model for a project and decodes its reply
func (g *Generator) Generate(ctx context.Context, prompt, extra string) (Result, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildInstructions(prompt, extra)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: g.temperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Result{}, &UpstreamError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("%w: empty completion", ErrNonJSONOutput)
	}
	content := resp.Choices[0].Message.Content

	g.log.WithFields(logrus.Fields{
		"model":             g.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"bytes":             len(content),
	}).Debug("model replied")

	result, err := ParseOutput(content)
	if err != nil {
		g.log.WithError(err).WithField("output", truncate(content, 512)).Warn("unusable model output")
		return Result{}, err
	}
	return result, nil
}

// truncate shortens a string to maxLen runes with ellipsis
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
