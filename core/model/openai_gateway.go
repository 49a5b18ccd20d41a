package model

import (
	"context"
	"fmt"

	"github.com/Malowking/edugo/core/client"
	"github.com/Malowking/edugo/core/config"
	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/sashabaranov/go-openai"
)

// OpenAIGateway 基于 go-openai 的网关实现
type OpenAIGateway struct {
	client      *client.OpenAIClient
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIGateway 创建 OpenAI 兼容网关
func NewOpenAIGateway(cfg config.LLMConfig) *OpenAIGateway {
	return &OpenAIGateway{
		client:      client.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete 发送一次补全请求
func (o *OpenAIGateway) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	temperature := o.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := o.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	resp, err := o.client.ChatCompletion(ctx, client.ChatCompletionRequest{
		Model:               o.model,
		Messages:            toOpenAIMessages(req.Messages),
		Temperature:         temperature,
		MaxCompletionTokens: maxTokens,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.ErrLLMCallFailed, "model returned no choices")
	}

	return &Completion{
		Content: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func toOpenAIMessages(msgs []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

func (o *OpenAIGateway) String() string {
	return fmt.Sprintf("openai(%s)", o.model)
}
