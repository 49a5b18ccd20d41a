package schema

// RoleType 消息角色类型
type RoleType string

const (
	System    RoleType = "system"
	User      RoleType = "user"
	Assistant RoleType = "assistant"
)

// Message 表示对话消息
type Message struct {
	// Role 消息角色：system, user, assistant
	Role RoleType `json:"role"`
	// Content 文本内容
	Content string `json:"content"`
}

// SystemMessage 构造系统消息
func SystemMessage(content string) *Message {
	return &Message{Role: System, Content: content}
}

// UserMessage 构造用户消息
func UserMessage(content string) *Message {
	return &Message{Role: User, Content: content}
}

// AssistantMessage 构造助手消息
func AssistantMessage(content string) *Message {
	return &Message{Role: Assistant, Content: content}
}

// IsValidRole 判断角色是否合法（对话历史只接受这三种）
func IsValidRole(role RoleType) bool {
	switch role {
	case System, User, Assistant:
		return true
	default:
		return false
	}
}
