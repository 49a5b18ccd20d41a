package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/edugo/core/model"
	"github.com/Malowking/edugo/nl2sql/advisor"
	nl2sqlSchema "github.com/Malowking/edugo/nl2sql/schema"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// SQLGenerator 根据 Schema 描述和示例让模型生成 SQL
type SQLGenerator struct {
	catalog *nl2sqlSchema.Catalog
	advisor *advisor.Advisor[string, string]
	system  string
}

// NewSQLGenerator 创建SQL生成器
func NewSQLGenerator(catalog *nl2sqlSchema.Catalog, gateway model.Gateway) *SQLGenerator {
	gen := &SQLGenerator{
		catalog: catalog,
		system:  buildSystemPrompt(catalog),
	}
	gen.advisor = &advisor.Advisor[string, string]{
		Name:    "sql",
		Gateway: gateway,
		Prompt:  gen.BuildMessages,
		Parse: func(raw string) (string, error) {
			return CleanStatement(raw), nil
		},
	}
	return gen
}

// Generate 生成候选SQL，返回的语句未经校验
func (gen *SQLGenerator) Generate(ctx context.Context, question string) (string, error) {
	advice, err := gen.advisor.Advise(ctx, question)
	if err != nil {
		return "", err
	}
	g.Log().Infof(ctx, "[SQL生成] 问题: %s, 生成的SQL: %s", question, advice.Value)
	return advice.Value, nil
}

// BuildMessages 构建提示词：指令、Schema 和示例放在系统消息，问题放在用户消息
func (gen *SQLGenerator) BuildMessages(question string) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(gen.system),
		schema.UserMessage(fmt.Sprintf("请将以下自然语言转换为SQL语句：\n%s", question)),
	}
}

func buildSystemPrompt(catalog *nl2sqlSchema.Catalog) string {
	var sb strings.Builder

	// 系统角色
	sb.WriteString("你是一个SQL生成专家。请根据用户的自然语言描述，生成一条准确的SQL语句。\n\n")

	// Schema信息
	sb.WriteString("## 数据库Schema\n\n")
	sb.WriteString(catalog.Describe())
	sb.WriteString("\n\n")

	// 规则约束
	sb.WriteString("## 规则\n")
	sb.WriteString("1. 只输出SQL语句，不要有任何解释或额外内容\n")
	sb.WriteString("2. 文本值使用单引号包裹\n")
	sb.WriteString("3. 对于INSERT/UPDATE/DELETE操作，确保 WHERE 条件准确\n")
	sb.WriteString("4. 涉及统计时使用 COUNT, SUM, AVG 等聚合函数\n")
	sb.WriteString("5. 按照字段名准确拼写\n")

	// 示例
	exemplars := catalog.Exemplars()
	if len(exemplars) > 0 {
		sb.WriteString("\n## 示例\n")
		for _, ex := range exemplars {
			sb.WriteString(fmt.Sprintf("Q: %s\nA: %s\n\n", ex.Question, ex.SQL))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// CleanStatement 去掉模型输出首尾的空白和代码块标记
func CleanStatement(raw string) string {
	return advisor.StripFence(raw)
}
