package model

import (
	"context"

	"github.com/Malowking/edugo/core/config"
	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einoModel "github.com/cloudwego/eino/components/model"
	einoSchema "github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// EinoGateway 基于 eino ChatModel 的网关实现
type EinoGateway struct {
	chatModel   einoModel.BaseChatModel
	temperature float32
	maxTokens   int
}

// NewEinoGateway 创建 eino 网关
func NewEinoGateway(ctx context.Context, cfg config.LLMConfig) (*EinoGateway, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrModelNotConfigured, err, "create eino chat model failed")
	}
	return &EinoGateway{
		chatModel:   cm,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete 发送一次补全请求
func (e *EinoGateway) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	temperature := e.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := e.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	msg, err := e.chatModel.Generate(ctx, toEinoMessages(req.Messages),
		einoModel.WithTemperature(temperature),
		einoModel.WithMaxTokens(maxTokens),
	)
	if err != nil {
		g.Log().Errorf(ctx, "[Eino Gateway] Generate failed: %v", err)
		return nil, err
	}

	completion := &Completion{Content: msg.Content}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		completion.Usage = Usage{
			PromptTokens:     msg.ResponseMeta.Usage.PromptTokens,
			CompletionTokens: msg.ResponseMeta.Usage.CompletionTokens,
			TotalTokens:      msg.ResponseMeta.Usage.TotalTokens,
		}
	}
	return completion, nil
}

func toEinoMessages(msgs []*schema.Message) []*einoSchema.Message {
	out := make([]*einoSchema.Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		out = append(out, &einoSchema.Message{
			Role:    einoSchema.RoleType(m.Role),
			Content: m.Content,
		})
	}
	return out
}
