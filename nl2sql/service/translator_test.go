package service

import (
	"context"
	"errors"
	"testing"

	nl2sqlCommon "github.com/Malowking/edugo/nl2sql/common"
	"github.com/Malowking/edugo/nl2sql/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	statement string
	err       error
	calls     int
}

func (f *fakeGenerator) Generate(ctx context.Context, question string) (string, error) {
	f.calls++
	return f.statement, f.err
}

type recordingExecutor struct {
	statements []string
	tokens     []string
	result     *executor.Envelope
}

func (r *recordingExecutor) Execute(ctx context.Context, statement, token string) *executor.Envelope {
	r.statements = append(r.statements, statement)
	r.tokens = append(r.tokens, token)
	return r.result
}

func TestIsDatabaseRequest(t *testing.T) {
	yes := []string{
		"查询计算机学院的所有学生",
		"统计每个年级的人数",
		"删除学号2024001的学生",
		"一共有多少人",
		"How many students are in each college?",
		"delete the record",
		"List all majors",
	}
	for _, text := range yes {
		assert.True(t, IsDatabaseRequest(text), text)
	}

	no := []string{
		"你好",
		"今天天气怎么样",
		"tell me a joke",
		"what is my email address",
		"",
	}
	for _, text := range no {
		assert.False(t, IsDatabaseRequest(text), text)
	}
}

func TestTranslate_NotDatabaseRequestSkipsGateway(t *testing.T) {
	gen := &fakeGenerator{statement: "SELECT 1"}
	exec := &recordingExecutor{}
	tr := NewTranslator(gen, exec)

	env := tr.Translate(context.Background(), "你好呀", "")
	assert.False(t, env.Success)
	assert.Equal(t, "not a database request", env.Message)
	assert.Equal(t, nl2sqlCommon.KindNotDatabaseRequest, env.ErrorKind)
	assert.Zero(t, gen.calls)
	assert.Empty(t, exec.statements)
}

func TestTranslate_GatewayFailureExecutesNothing(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model call timed out")}
	exec := &recordingExecutor{}
	tr := NewTranslator(gen, exec)

	env := tr.Translate(context.Background(), "查询所有学生", "token")
	assert.False(t, env.Success)
	assert.Equal(t, "translation failed: model call timed out", env.Message)
	assert.Equal(t, nl2sqlCommon.KindTranslationFailure, env.ErrorKind)
	assert.Nil(t, env.SQL)
	assert.Empty(t, exec.statements)
}

func TestTranslate_PassesStatementAndTokenThrough(t *testing.T) {
	op := nl2sqlCommon.OpSelect
	want := &executor.Envelope{Success: true, Operation: &op, Message: "query succeeded, 0 records"}
	gen := &fakeGenerator{statement: "SELECT * FROM students"}
	exec := &recordingExecutor{result: want}
	tr := NewTranslator(gen, exec)

	env := tr.Translate(context.Background(), "查询所有学生", "admin")
	require.Same(t, want, env)
	assert.Equal(t, []string{"SELECT * FROM students"}, exec.statements)
	assert.Equal(t, []string{"admin"}, exec.tokens)
}
