package common

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// 多个空格/制表符合并为一个空格
	spaceRe = regexp.MustCompile(`[ \t\f\v]+`)
	// 多个换行符（3个或以上）合并为两个换行
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

// 零宽字符集合
var zeroWidthRunes = map[rune]bool{
	'\u200B': true, // Zero Width Space
	'\u200C': true, // Zero Width Non-Joiner
	'\u200D': true, // Zero Width Joiner
	'\uFEFF': true, // BOM
	'\u2060': true, // Word Joiner
	'\u180E': true, // Mongolian Vowel Separator
}

// 非标准空格字符（转换为普通空格）
var nonStandardSpaces = map[rune]bool{
	'\u00A0': true, // Non-breaking space
	'\u2002': true, // En Space
	'\u2003': true, // Em Space
	'\u2009': true, // Thin Space
	'\u202F': true, // Narrow No-Break Space
	'\u3000': true, // 全角空格
}

// CleanInput 清洗用户输入的自然语言
// 非法UTF-8替换为U+FFFD；去掉控制字符和零宽字符；NFC归一化；全角等空格转为普通空格并合并
func CleanInput(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\r':
			continue
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			// 控制字符
		case zeroWidthRunes[r]:
		case nonStandardSpaces[r]:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	s = norm.NFC.String(b.String())
	s = spaceRe.ReplaceAllString(s, " ")
	s = newlineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
