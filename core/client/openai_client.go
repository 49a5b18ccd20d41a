package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient 统一的OpenAI兼容API客户端
// 负责发送非流式对话请求，DeepSeek 等兼容服务通过 BaseURL 接入
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient 创建OpenAI客户端，timeout 作用于底层 HTTP 请求
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
	}
}

// ChatCompletionRequest 聊天请求参数
type ChatCompletionRequest struct {
	Model               string
	Messages            []openai.ChatCompletionMessage
	Temperature         float32
	MaxCompletionTokens int
	Stop                []string
}

// ChatCompletion 非流式对话
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxCompletionTokens,
		Stop:        req.Stop,
	}

	// 记录请求详情
	g.Log().Infof(ctx, "[OpenAI Client] 发送请求 - Model: %s, Messages: %d, Temp: %.2f, MaxTokens: %d",
		req.Model, len(req.Messages), req.Temperature, req.MaxCompletionTokens)

	resp, err := c.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		g.Log().Errorf(ctx, "[OpenAI Client] API调用失败 - Model: %s, Error: %v", req.Model, err)
		if debugJSON, jsonErr := sonic.MarshalIndent(req.Messages, "", "  "); jsonErr == nil {
			g.Log().Debugf(ctx, "[OpenAI Client] 失败请求的消息:\n%s", string(debugJSON))
		}
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	// 记录响应详情
	g.Log().Infof(ctx, "[OpenAI Client] 收到响应 - ID: %s, Model: %s, Choices: %d, Usage: %+v",
		resp.ID, resp.Model, len(resp.Choices), resp.Usage)

	return &resp, nil
}
