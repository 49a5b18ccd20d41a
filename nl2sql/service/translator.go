package service

import (
	"context"
	"fmt"
	"strings"

	nl2sqlCommon "github.com/Malowking/edugo/nl2sql/common"
	"github.com/Malowking/edugo/nl2sql/executor"
	"github.com/gogf/gf/v2/frame/g"
)

// SQLGenerator 生成候选SQL
type SQLGenerator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// StatementExecutor 执行候选SQL
type StatementExecutor interface {
	Execute(ctx context.Context, statement, token string) *executor.Envelope
}

// 数据库请求关键词：增删改查统计的动词和学生信息相关名词
var databaseKeywords = []string{
	"查询", "统计", "搜索", "查找", "列出",
	"添加", "插入", "新增", "创建",
	"更新", "修改", "改变", "编辑",
	"删除", "移除", "去掉",
	"学生", "学号", "学院", "专业", "班级", "年级",
	"多少", "几个", "数量", "人数",
}

// 英文关键词按单词匹配，避免 "address" 命中 "add"
var databaseWords = map[string]struct{}{
	"query": {}, "select": {}, "search": {}, "find": {}, "list": {}, "show": {}, "count": {},
	"add": {}, "insert": {}, "create": {},
	"update": {}, "modify": {}, "change": {}, "edit": {},
	"delete": {}, "remove": {},
	"student": {}, "students": {}, "college": {}, "major": {}, "class": {}, "grade": {}, "grades": {},
	"many": {}, "number": {},
}

// Translator 自然语言转SQL并执行
type Translator struct {
	generator SQLGenerator
	executor  StatementExecutor
}

// NewTranslator 创建转换器
func NewTranslator(generator SQLGenerator, executor StatementExecutor) *Translator {
	return &Translator{
		generator: generator,
		executor:  executor,
	}
}

// IsDatabaseRequest 判断输入是否为数据库请求，不调用模型
func IsDatabaseRequest(text string) bool {
	for _, keyword := range databaseKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_')
	})
	for _, w := range words {
		if _, ok := databaseWords[w]; ok {
			return true
		}
	}
	return false
}

// Translate 判断意图、生成SQL并交给执行器
// 模型失败时返回 translation failed，不会执行任何语句
func (t *Translator) Translate(ctx context.Context, text, token string) *executor.Envelope {
	if !IsDatabaseRequest(text) {
		g.Log().Infof(ctx, "[Text2SQL] 非数据库请求: %s", text)
		return executor.Failure(nl2sqlCommon.KindNotDatabaseRequest, nl2sqlCommon.MsgNotDatabaseRequest, "")
	}

	statement, err := t.generator.Generate(ctx, text)
	if err != nil {
		g.Log().Errorf(ctx, "[Text2SQL] 转换失败: %v", err)
		return executor.Failure(nl2sqlCommon.KindTranslationFailure, fmt.Sprintf(nl2sqlCommon.MsgTranslationFailed, err), "")
	}

	return t.executor.Execute(ctx, statement, token)
}
