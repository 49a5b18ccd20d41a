package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/edugo/core/model"
	"github.com/Malowking/edugo/internal/metrics"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
)

// Advice 一次建议的结果
type Advice[Rec any] struct {
	Value    Rec
	Raw      string // 模型原始输出
	FellBack bool   // 解析失败后使用了兜底建议
	Usage    model.Usage
}

// Advisor 由模型给出建议，再由调用方提供的解析和兜底逻辑校验
// 模型输出不可信：解析失败走 Fallback，网关失败原样返回错误
type Advisor[In any, Rec any] struct {
	Name        string
	Gateway     model.Gateway
	Temperature *float32
	MaxTokens   int
	Prompt      func(in In) []*schema.Message
	Parse       func(raw string) (Rec, error)
	Fallback    func(in In, parseErr error) Rec
}

// Advise 构建提示词、调用模型并解析
func (a *Advisor[In, Rec]) Advise(ctx context.Context, in In) (*Advice[Rec], error) {
	if a.Gateway == nil {
		metrics.ObserveGatewayCall(a.Name, "unconfigured", 0)
		return nil, fmt.Errorf("%s advisor: model gateway is not configured", a.Name)
	}

	completion, err := a.Gateway.Complete(ctx, &model.CompletionRequest{
		Messages:    a.Prompt(in),
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
	})
	if err != nil {
		metrics.ObserveGatewayCall(a.Name, "error", 0)
		g.Log().Errorf(ctx, "[%s advisor] 模型调用失败: %v", a.Name, err)
		return nil, err
	}
	metrics.ObserveGatewayCall(a.Name, "success", completion.Usage.TotalTokens)

	advice := &Advice[Rec]{Raw: completion.Content, Usage: completion.Usage}
	value, parseErr := a.Parse(completion.Content)
	if parseErr == nil {
		advice.Value = value
		return advice, nil
	}
	if a.Fallback == nil {
		return nil, fmt.Errorf("%s advisor: parse model output: %w", a.Name, parseErr)
	}

	g.Log().Warningf(ctx, "[%s advisor] 解析模型输出失败，使用默认建议: %v", a.Name, parseErr)
	advice.Value = a.Fallback(in, parseErr)
	advice.FellBack = true
	return advice, nil
}

// DecodeJSON 从模型输出中提取并解析 JSON
// 支持 ```json 代码块、普通代码块和直接输出的 JSON
func DecodeJSON[T any](raw string) (T, error) {
	var out T
	jsonStr := ExtractJSON(raw)
	if jsonStr == "" {
		return out, fmt.Errorf("no json found in model output")
	}
	if err := sonic.UnmarshalString(jsonStr, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ExtractJSON 提取模型输出中第一个 { 到最后一个 } 之间的 JSON 文本
// 代码块标记和前后说明文字都会被忽略
func ExtractJSON(raw string) string {
	trimmed := StripFence(raw)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return ""
	}
	return trimmed[start : end+1]
}

// 同一行出现时也视为语言标记的名称
var knownFenceTags = map[string]struct{}{
	"sql": {}, "mysql": {}, "postgresql": {}, "postgres": {}, "sqlite": {}, "json": {},
}

// StripFence 去掉首尾空白以及包裹输出的代码块标记
// 开头的 ``` 及紧随其后的语言标记会被去掉，内部内容保持不变
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		i := 0
		for i < len(s) && isTagChar(s[i]) {
			i++
		}
		if i > 0 {
			tag := s[:i]
			_, known := knownFenceTags[strings.ToLower(tag)]
			switch {
			case i == len(s), s[i] == '\n', s[i] == '\r':
				s = s[i:]
			case known && isSpace(s[i]):
				s = s[i:]
			}
		}
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

func isTagChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == '+'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}
