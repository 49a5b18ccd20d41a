package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// HistoryMessage 客户端携带的历史消息
type HistoryMessage struct {
	Role    string `json:"role" v:"in:user,assistant"`
	Content string `json:"content"`
}

type ChatReq struct {
	g.Meta              `path:"/v1/chat" method:"post" tags:"chat" summary:"对话：普通聊天或数据库请求"`
	Message             string            `json:"message" v:"required#消息不能为空"`
	SessionID           string            `json:"session_id"`           // 会话ID，为空时生成新会话
	AdminToken          string            `json:"admin_token"`          // 写操作需要的管理员令牌
	ConversationHistory []*HistoryMessage `json:"conversation_history"` // 可选，优先于服务端存储的历史
}

type ChatChart struct {
	Type string `json:"type"`
	Data string `json:"data"` // base64 PNG
}

type ChatData struct {
	Table     []map[string]interface{} `json:"table,omitempty"`
	Columns   []string                 `json:"columns,omitempty"`
	Chart     *ChatChart               `json:"chart,omitempty"`
	Operation string                   `json:"operation,omitempty"`
	SQL       string                   `json:"sql,omitempty"`
}

type ChatRes struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      *ChatData `json:"data,omitempty"`
	DataType  string    `json:"data_type"` // text, table, table_and_chart
	SessionID string    `json:"session_id"`
}

type ChatHistoryClearReq struct {
	g.Meta    `path:"/v1/chat/sessions/{session_id}" method:"delete" tags:"chat" summary:"清空会话历史"`
	SessionID string `json:"session_id" v:"required"`
}

type ChatHistoryClearRes struct{}
