package chart

import (
	"strings"

	"github.com/Malowking/edugo/pkg/schema"
)

// 统计意图关键词
var statisticalKeywords = []string{
	"统计", "数量", "人数", "分布", "比例", "占比", "趋势",
}

var statisticalKeywordsEN = []string{
	"count", "distribution", "proportion", "percentage", "ratio", "trend",
	"amount of", "number of", "how many",
}

// ShouldChart 本地判断是否值得生成图表，不调用模型
// 空结果和单行结果不生成；描述中必须包含统计意图关键词
func ShouldChart(table *schema.Table, description string) bool {
	if table.Len() <= 1 {
		return false
	}

	for _, keyword := range statisticalKeywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}

	lower := strings.ToLower(description)
	for _, keyword := range statisticalKeywordsEN {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
