package model

import (
	"context"
	"strings"

	"github.com/Malowking/edugo/core/config"
	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/pkg/schema"
)

// Usage token 用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest 一次补全请求
type CompletionRequest struct {
	Messages    []*schema.Message
	Temperature *float32 // 为空时使用网关默认温度
	MaxTokens   int      // 为0时使用网关默认值
}

// Completion 补全结果
type Completion struct {
	Content string
	Usage   Usage
}

// Gateway 大模型网关，所有需要模型的组件都只依赖这个接口
type Gateway interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

// Temperature 便捷构造温度参数
func Temperature(t float32) *float32 {
	return &t
}

// NewGateway 按配置创建网关，并包上重试
func NewGateway(ctx context.Context, cfg config.LLMConfig) (Gateway, error) {
	if cfg.Model == "" {
		return nil, errors.New(errors.ErrModelNotConfigured, "llm.model is not configured")
	}

	var (
		inner Gateway
		err   error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		inner = NewOpenAIGateway(cfg)
	case "eino":
		inner, err = NewEinoGateway(ctx, cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf(errors.ErrModelNotConfigured, "unsupported llm provider: %s", cfg.Provider)
	}

	return NewRetryingGateway(inner, RetryConfig{
		MaxRetries:     cfg.MaxRetries,
		InitialDelay:   cfg.RetryDelay,
		AttemptTimeout: cfg.Timeout,
	}), nil
}
