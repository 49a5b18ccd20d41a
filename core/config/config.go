package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogf/gf/v2/frame/g"
)

// LLMConfig 大模型网关配置
type LLMConfig struct {
	Provider    string        // openai 或 eino
	APIKey      string        // API密钥
	BaseURL     string        // API Base URL
	Model       string        // 模型名称
	Temperature float32       // 温度
	MaxTokens   int           // 最大输出token数
	Timeout     time.Duration // 单次调用超时
	MaxRetries  int           // 最大重试次数（不含首次调用）
	RetryDelay  time.Duration // 首次重试延迟，之后指数退避
}

// SecurityConfig SQL执行安全配置
type SecurityConfig struct {
	AdminToken      string        // 写操作所需的管理员令牌，为空表示禁止一切写操作
	MaxAffectedRows int           // 单条写语句允许影响的最大行数
	MaxQueryRows    int           // 查询最多返回的行数
	StoreTimeout    time.Duration // 单次数据库调用超时
}

// ChartConfig 图表配置
type ChartConfig struct {
	Width  int
	Height int
	DPI    float64
}

// HistoryConfig 会话历史配置
type HistoryConfig struct {
	Backend     string        // memory 或 redis
	Capacity    int           // memory 后端最多保留的会话数（LRU）
	TTL         time.Duration // 会话过期时间
	MaxMessages int           // 每个会话最多保留的消息数
}

// ArchiveConfig 图表归档配置
type ArchiveConfig struct {
	Backend   string // none, local, minio
	Dir       string // local 后端目录
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	SSL       bool
}

// ExportConfig 查询结果导出配置
type ExportConfig struct {
	Dir string
}

// Settings 进程级配置，启动时加载一次，之后只读
type Settings struct {
	LLM      LLMConfig
	Security SecurityConfig
	Chart    ChartConfig
	History  HistoryConfig
	Archive  ArchiveConfig
	Export   ExportConfig
}

// Defaults 默认配置
func Defaults() *Settings {
	return &Settings{
		LLM: LLMConfig{
			Provider:    "openai",
			BaseURL:     "https://api.deepseek.com",
			Model:       "deepseek-chat",
			Temperature: 0.3,
			MaxTokens:   2000,
			Timeout:     30 * time.Second,
			MaxRetries:  3,
			RetryDelay:  time.Second,
		},
		Security: SecurityConfig{
			MaxAffectedRows: 100,
			MaxQueryRows:    1000,
			StoreTimeout:    15 * time.Second,
		},
		Chart: ChartConfig{
			Width:  800,
			Height: 600,
			DPI:    100,
		},
		History: HistoryConfig{
			Backend:     "memory",
			Capacity:    1024,
			TTL:         2 * time.Hour,
			MaxMessages: 20,
		},
		Archive: ArchiveConfig{
			Backend: "none",
			Dir:     "charts",
			Bucket:  "charts",
		},
		Export: ExportConfig{
			Dir: "upload",
		},
	}
}

// Load 从 config.yaml 读取配置，未配置的项使用默认值
func Load(ctx context.Context) *Settings {
	s := Defaults()
	cfg := g.Cfg()

	s.LLM.Provider = cfg.MustGet(ctx, "llm.provider", s.LLM.Provider).String()
	s.LLM.APIKey = cfg.MustGet(ctx, "llm.apiKey", s.LLM.APIKey).String()
	s.LLM.BaseURL = cfg.MustGet(ctx, "llm.baseURL", s.LLM.BaseURL).String()
	s.LLM.Model = cfg.MustGet(ctx, "llm.model", s.LLM.Model).String()
	s.LLM.Temperature = cfg.MustGet(ctx, "llm.temperature", s.LLM.Temperature).Float32()
	s.LLM.MaxTokens = cfg.MustGet(ctx, "llm.maxTokens", s.LLM.MaxTokens).Int()
	s.LLM.Timeout = cfg.MustGet(ctx, "llm.timeout", s.LLM.Timeout).Duration()
	s.LLM.MaxRetries = cfg.MustGet(ctx, "llm.maxRetries", s.LLM.MaxRetries).Int()
	s.LLM.RetryDelay = cfg.MustGet(ctx, "llm.retryDelay", s.LLM.RetryDelay).Duration()

	s.Security.AdminToken = cfg.MustGet(ctx, "security.adminToken", s.Security.AdminToken).String()
	s.Security.MaxAffectedRows = cfg.MustGet(ctx, "security.maxAffectedRows", s.Security.MaxAffectedRows).Int()
	s.Security.MaxQueryRows = cfg.MustGet(ctx, "security.maxQueryRows", s.Security.MaxQueryRows).Int()
	s.Security.StoreTimeout = cfg.MustGet(ctx, "security.storeTimeout", s.Security.StoreTimeout).Duration()

	s.Chart.Width = cfg.MustGet(ctx, "chart.width", s.Chart.Width).Int()
	s.Chart.Height = cfg.MustGet(ctx, "chart.height", s.Chart.Height).Int()
	s.Chart.DPI = cfg.MustGet(ctx, "chart.dpi", s.Chart.DPI).Float64()

	s.History.Backend = cfg.MustGet(ctx, "history.backend", s.History.Backend).String()
	s.History.Capacity = cfg.MustGet(ctx, "history.capacity", s.History.Capacity).Int()
	s.History.TTL = cfg.MustGet(ctx, "history.ttl", s.History.TTL).Duration()
	s.History.MaxMessages = cfg.MustGet(ctx, "history.maxMessages", s.History.MaxMessages).Int()

	s.Archive.Backend = cfg.MustGet(ctx, "archive.backend", s.Archive.Backend).String()
	s.Archive.Dir = cfg.MustGet(ctx, "archive.dir", s.Archive.Dir).String()
	s.Archive.Endpoint = cfg.MustGet(ctx, "archive.endpoint", "").String()
	s.Archive.AccessKey = cfg.MustGet(ctx, "archive.accessKey", "").String()
	s.Archive.SecretKey = cfg.MustGet(ctx, "archive.secretKey", "").String()
	s.Archive.Bucket = cfg.MustGet(ctx, "archive.bucket", s.Archive.Bucket).String()
	s.Archive.SSL = cfg.MustGet(ctx, "archive.ssl", false).Bool()

	s.Export.Dir = cfg.MustGet(ctx, "export.dir", s.Export.Dir).String()

	return s
}

// ValidateConfiguration validates all required configuration items
func ValidateConfiguration(ctx context.Context, s *Settings) error {
	var missingConfigs []string
	var warnings []string

	// 验证 LLM 配置
	if s.LLM.APIKey == "" {
		warnings = append(warnings, "llm.apiKey is not set, natural language queries will fail")
	}
	if s.LLM.Model == "" {
		missingConfigs = append(missingConfigs, "llm.model")
	}
	switch s.LLM.Provider {
	case "openai", "eino":
	default:
		missingConfigs = append(missingConfigs, fmt.Sprintf("llm.provider (unsupported value %q)", s.LLM.Provider))
	}
	if s.LLM.Timeout <= 0 {
		missingConfigs = append(missingConfigs, "llm.timeout")
	}
	if s.LLM.MaxRetries < 0 {
		missingConfigs = append(missingConfigs, "llm.maxRetries (must be >= 0)")
	}

	// 验证安全配置
	if s.Security.AdminToken == "" {
		warnings = append(warnings, "security.adminToken is not set, all write statements will be refused")
	}
	if s.Security.MaxAffectedRows <= 0 {
		missingConfigs = append(missingConfigs, "security.maxAffectedRows")
	}
	if s.Security.MaxQueryRows <= 0 {
		missingConfigs = append(missingConfigs, "security.maxQueryRows")
	}
	if s.Security.StoreTimeout <= 0 {
		missingConfigs = append(missingConfigs, "security.storeTimeout")
	}

	// 验证图表配置
	if s.Chart.Width <= 0 || s.Chart.Height <= 0 || s.Chart.DPI <= 0 {
		missingConfigs = append(missingConfigs, "chart.width/chart.height/chart.dpi")
	}

	// 验证数据库配置
	dbHost := g.Cfg().MustGet(ctx, "database.default.host", "").String()
	dbName := g.Cfg().MustGet(ctx, "database.default.name", "").String()
	if dbHost == "" {
		missingConfigs = append(missingConfigs, "database.default.host")
	}
	if dbName == "" {
		missingConfigs = append(missingConfigs, "database.default.name")
	}

	// 输出警告信息
	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	// 检查是否有缺失的必需配置
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing or invalid configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")
	return nil
}
