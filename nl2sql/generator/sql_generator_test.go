package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Malowking/edugo/core/model"
	nl2sqlSchema "github.com/Malowking/edugo/nl2sql/schema"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replyGateway struct {
	reply string
	err   error
	last  *model.CompletionRequest
}

func (r *replyGateway) Complete(ctx context.Context, req *model.CompletionRequest) (*model.Completion, error) {
	r.last = req
	if r.err != nil {
		return nil, r.err
	}
	return &model.Completion{Content: r.reply}, nil
}

func TestBuildMessages_ContainsInstructionsSchemaAndOrderedExemplars(t *testing.T) {
	catalog := nl2sqlSchema.Students()
	gen := NewSQLGenerator(catalog, &replyGateway{})

	msgs := gen.BuildMessages("统计每个学院的人数")
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "统计每个学院的人数")

	system := msgs[0].Content
	assert.Contains(t, system, "只输出SQL语句")
	assert.Contains(t, system, "单引号")
	assert.Contains(t, system, "聚合函数")
	assert.Contains(t, system, catalog.Describe())

	last := -1
	for _, ex := range catalog.Exemplars() {
		idx := strings.Index(system, "Q: "+ex.Question+"\nA: "+ex.SQL)
		require.GreaterOrEqual(t, idx, 0, ex.Question)
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestGenerate_CleansFencedOutput(t *testing.T) {
	gw := &replyGateway{reply: "```sql\nSELECT grade, COUNT(*) FROM students GROUP BY grade\n```"}
	gen := NewSQLGenerator(nl2sqlSchema.Students(), gw)

	stmt, err := gen.Generate(context.Background(), "统计每个年级的人数")
	require.NoError(t, err)
	assert.Equal(t, "SELECT grade, COUNT(*) FROM students GROUP BY grade", stmt)
	require.NotNil(t, gw.last)
	assert.Len(t, gw.last.Messages, 2)
}

func TestGenerate_GatewayError(t *testing.T) {
	gen := NewSQLGenerator(nl2sqlSchema.Students(), &replyGateway{err: errors.New("rate limited")})

	_, err := gen.Generate(context.Background(), "查询所有学生")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCleanStatement(t *testing.T) {
	assert.Equal(t, "SELECT 1", CleanStatement("  ```sql\nSELECT 1\n```  "))
	assert.Equal(t, "SELECT 1", CleanStatement("SELECT 1"))
	assert.Equal(t, "", CleanStatement("```\n```"))
}
