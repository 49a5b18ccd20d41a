package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "统计各学院人数", "统计各学院人数"},
		{"full width space", "查询\u3000学生", "查询 学生"},
		{"zero width", "删\u200B除学生", "删除学生"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"collapse spaces", "  list   all\tstudents  ", "list all students"},
		{"crlf and newlines", "a\r\n\n\n\nb", "a\n\nb"},
		{"invalid utf8", "a\xffb", "a\uFFFDb"},
		{"nfc", "e\u0301", "\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanInput(tt.input))
		})
	}
}
