package futurewindow

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIChatModel calls the OpenAI Chat Completions API with the composed
// role-tagged history. Implements ChatModel.
type OpenAIChatModel struct {
	client      *openai.Client
	model       string
	temperature float64
}

// NewOpenAIChatModel creates a chat model client. baseURL is overridable for
// tests and proxies; empty means the public API.
func NewOpenAIChatModel(apiKey, baseURL, model string, temperature float64) *OpenAIChatModel {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIChatModel{client: &client, model: model, temperature: temperature}
}

// Complete performs one synchronous completion and returns the reply text.
func (m *OpenAIChatModel) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(m.model),
		Temperature: openai.Float(m.temperature),
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
