package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/edugo/chart"
	"github.com/Malowking/edugo/core/common"
	coreModel "github.com/Malowking/edugo/core/model"
	"github.com/Malowking/edugo/internal/history"
	"github.com/Malowking/edugo/nl2sql/executor"
	"github.com/Malowking/edugo/nl2sql/service"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
)

// 响应数据类型
const (
	DataTypeText          = "text"
	DataTypeTable         = "table"
	DataTypeTableAndChart = "table_and_chart"
)

const (
	chartGeneratedSuffix = "\n\n我已为您生成图表展示结果。"
	apologyFormat        = "抱歉，我遇到了一些问题：%v"
)

// SystemPrompt 普通对话的系统提示词
const SystemPrompt = `你是一个智能学生信息管理助手。你可以帮助用户：
1. 回答关于学生信息管理的问题
2. 处理数据库查询请求（通过text2sql）
3. 生成图表展示查询结果

数据库表结构：
- students表包含学生信息：姓名、学号、班级、学院、专业、年级、性别、手机号等

当用户询问关于学生信息的查询、统计、增删改等操作时，请礼貌地回复，说明你会处理这个请求。
`

// Translator 自然语言转SQL并执行
type Translator interface {
	Translate(ctx context.Context, text, token string) *executor.Envelope
}

// ChartRenderer 查询结果转图表
type ChartRenderer interface {
	Render(ctx context.Context, table *schema.Table, description string) *chart.Result
}

// Request 一轮对话请求
type Request struct {
	Message    string
	SessionID  string            // 为空时生成新会话
	AdminToken string            // 写操作令牌
	History    []*schema.Message // 客户端自带的历史，非空时优先于服务端存储
}

// ChartPayload 响应中的图表
type ChartPayload struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// ResponseData 附加数据
type ResponseData struct {
	Table     []map[string]any `json:"table,omitempty"`
	Columns   []string         `json:"columns,omitempty"`
	Chart     *ChartPayload    `json:"chart,omitempty"`
	Operation string           `json:"operation,omitempty"`
	SQL       string           `json:"sql,omitempty"`
}

// Response 一轮对话响应
type Response struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Data      *ResponseData `json:"data,omitempty"`
	DataType  string        `json:"data_type"`
	SessionID string        `json:"session_id"`
}

// Router 判断消息是数据库请求还是普通对话并分发
type Router struct {
	translator  Translator
	charts      ChartRenderer
	gateway     coreModel.Gateway
	history     history.Store
	temperature float32
	maxTokens   int
}

// NewRouter 创建对话路由；charts、history 可以为空
func NewRouter(translator Translator, charts ChartRenderer, gateway coreModel.Gateway, store history.Store, temperature float32, maxTokens int) *Router {
	return &Router{
		translator:  translator,
		charts:      charts,
		gateway:     gateway,
		history:     store,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Handle 处理一轮对话，任何失败都体现在 Response 中
func (r *Router) Handle(ctx context.Context, in *Request) *Response {
	req := *in
	req.Message = common.CleanInput(in.Message)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	g.Log().Infof(ctx, "[Chat] 用户消息: session=%s, message=%s", sessionID, req.Message)

	var resp *Response
	err := common.SafeCall(ctx, "chat-handle", func() error {
		if service.IsDatabaseRequest(req.Message) {
			resp = r.handleDatabase(ctx, &req)
		} else {
			resp = r.handlePlain(ctx, &req, sessionID)
		}
		return nil
	})
	if err != nil {
		resp = &Response{Success: false, Message: fmt.Sprintf("处理失败: %v", err), DataType: DataTypeText}
	}
	resp.SessionID = sessionID

	r.remember(ctx, sessionID, req.Message, resp.Message)
	return resp
}

func (r *Router) handleDatabase(ctx context.Context, req *Request) *Response {
	env := r.translator.Translate(ctx, req.Message, req.AdminToken)
	if !env.Success {
		return &Response{Success: false, Message: env.Message, DataType: DataTypeText}
	}

	sql := ""
	if env.SQL != nil {
		sql = *env.SQL
	}

	if !env.IsSelect() {
		return &Response{
			Success:  true,
			Message:  env.Message,
			Data:     &ResponseData{Operation: env.OperationName(), SQL: sql},
			DataType: DataTypeText,
		}
	}

	resp := &Response{
		Success: true,
		Message: env.Message,
		Data: &ResponseData{
			Table:     env.Rows,
			Columns:   env.Columns,
			Operation: env.OperationName(),
			SQL:       sql,
		},
		DataType: DataTypeTable,
	}

	table := env.Table()
	if r.charts == nil || !chart.ShouldChart(table, req.Message) {
		return resp
	}
	result := r.charts.Render(ctx, table, req.Message)
	if result == nil || !result.Success {
		if result != nil {
			g.Log().Infof(ctx, "[Chat] 未生成图表: %s", result.Message)
		}
		return resp
	}
	resp.Data.Chart = &ChartPayload{Type: result.ChartType, Data: result.ChartData}
	resp.DataType = DataTypeTableAndChart
	resp.Message += chartGeneratedSuffix
	return resp
}

// handlePlain 普通对话，模型失败时返回致歉回复
func (r *Router) handlePlain(ctx context.Context, req *Request, sessionID string) *Response {
	if r.gateway == nil {
		return &Response{Success: true, Message: fmt.Sprintf(apologyFormat, "model gateway is not configured"), DataType: DataTypeText}
	}

	messages := []*schema.Message{schema.SystemMessage(SystemPrompt)}
	messages = append(messages, r.loadHistory(ctx, req, sessionID)...)
	messages = append(messages, schema.UserMessage(req.Message))

	completion, err := r.gateway.Complete(ctx, &coreModel.CompletionRequest{
		Messages:    messages,
		Temperature: coreModel.Temperature(r.temperature),
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		g.Log().Errorf(ctx, "[Chat] 对话失败: %v", err)
		return &Response{Success: true, Message: fmt.Sprintf(apologyFormat, err), DataType: DataTypeText}
	}
	return &Response{Success: true, Message: strings.TrimSpace(completion.Content), DataType: DataTypeText}
}

func (r *Router) loadHistory(ctx context.Context, req *Request, sessionID string) []*schema.Message {
	if len(req.History) > 0 {
		out := make([]*schema.Message, 0, len(req.History))
		for _, m := range req.History {
			if m != nil && (m.Role == schema.User || m.Role == schema.Assistant) {
				out = append(out, m)
			}
		}
		return out
	}
	if r.history == nil {
		return nil
	}
	msgs, err := r.history.Load(ctx, sessionID)
	if err != nil {
		g.Log().Warningf(ctx, "[Chat] 加载会话历史失败: %v", err)
		return nil
	}
	return msgs
}

func (r *Router) remember(ctx context.Context, sessionID, question, answer string) {
	if r.history == nil {
		return
	}
	if err := r.history.Append(ctx, sessionID, schema.UserMessage(question), schema.AssistantMessage(answer)); err != nil {
		g.Log().Warningf(ctx, "[Chat] 保存会话历史失败: %v", err)
	}
}
