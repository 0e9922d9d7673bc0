package server

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibe_studio/internal/config"
	"vibe_studio/internal/logging"
)

type emptyCompleter struct{}

func (emptyCompleter) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

func TestGeneratorUpstreamError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	gen := NewGeneratorWithClient(&fakeCompleter{err: cause}, "m", 0, logging.Discard())

	_, err := gen.Generate(context.Background(), "x", "")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorIs(t, err, cause)
}

func TestGeneratorNoChoices(t *testing.T) {
	gen := NewGeneratorWithClient(emptyCompleter{}, "m", 0, logging.Discard())

	_, err := gen.Generate(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrNonJSONOutput)
}

func TestGeneratorTemperature(t *testing.T) {
	fc := &fakeCompleter{content: `{"files":[]}`}
	gen := NewGeneratorWithClient(fc, "qwen", 0.7, logging.Discard())

	_, err := gen.Generate(context.Background(), "x", "")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, fc.got.Temperature, 0.0001)
	assert.Equal(t, "qwen", fc.got.Model)
}

func TestNewGenerator(t *testing.T) {
	cfg := config.DefaultConfig().Server
	gen := NewGenerator(cfg, logging.Discard())
	assert.Equal(t, cfg.Model, gen.model)
	assert.NotNil(t, gen.client)
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héé...", truncate("hééllo", 3))
	assert.Equal(t, "日本...", truncate("日本語テキスト", 2))
}
