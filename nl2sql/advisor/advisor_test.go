package advisor

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/Malowking/edugo/core/model"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	content string
	err     error
	calls   int
	last    *model.CompletionRequest
}

func (s *stubGateway) Complete(ctx context.Context, req *model.CompletionRequest) (*model.Completion, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.Completion{Content: s.content, Usage: model.Usage{TotalTokens: 7}}, nil
}

type pick struct {
	Choice string `json:"choice"`
}

func newPickAdvisor(gw model.Gateway) *Advisor[string, pick] {
	return &Advisor[string, pick]{
		Name:        "pick",
		Gateway:     gw,
		Temperature: model.Temperature(0.1),
		Prompt: func(in string) []*schema.Message {
			return []*schema.Message{schema.SystemMessage("choose"), schema.UserMessage(in)}
		},
		Parse: DecodeJSON[pick],
		Fallback: func(in string, _ error) pick {
			return pick{Choice: "default-" + in}
		},
	}
}

func TestAdvisor_ParsesStructuredOutput(t *testing.T) {
	gw := &stubGateway{content: "```json\n{\"choice\": \"bar\"}\n```"}
	a := newPickAdvisor(gw)

	advice, err := a.Advise(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "bar", advice.Value.Choice)
	assert.False(t, advice.FellBack)
	assert.Equal(t, 7, advice.Usage.TotalTokens)

	require.Len(t, gw.last.Messages, 2)
	assert.Equal(t, schema.User, gw.last.Messages[1].Role)
	require.NotNil(t, gw.last.Temperature)
	assert.InDelta(t, 0.1, *gw.last.Temperature, 1e-6)
}

func TestAdvisor_FallsBackOnParseFailure(t *testing.T) {
	a := newPickAdvisor(&stubGateway{content: "I think a bar chart fits"})

	advice, err := a.Advise(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, advice.FellBack)
	assert.Equal(t, "default-x", advice.Value.Choice)
	assert.Equal(t, "I think a bar chart fits", advice.Raw)
}

func TestAdvisor_ParseFailureWithoutFallback(t *testing.T) {
	a := newPickAdvisor(&stubGateway{content: "{not json"})
	a.Fallback = nil

	_, err := a.Advise(context.Background(), "x")
	require.Error(t, err)
}

func TestAdvisor_GatewayErrorPropagates(t *testing.T) {
	a := newPickAdvisor(&stubGateway{err: stderrors.New("timeout")})

	_, err := a.Advise(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestAdvisor_NilGateway(t *testing.T) {
	a := newPickAdvisor(nil)
	a.Gateway = nil

	_, err := a.Advise(context.Background(), "x")
	require.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, ExtractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, ExtractJSON("result: {\"a\":{\"b\":2}} done"))
	assert.Equal(t, "", ExtractJSON("no json here"))
}

func TestStripFence(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM students":                         "SELECT * FROM students",
		"  SELECT 1  \n":                                 "SELECT 1",
		"```sql\nSELECT * FROM students\n```":            "SELECT * FROM students",
		"```SQL\nSELECT 1\n```":                          "SELECT 1",
		"```\nSELECT 1\n```":                             "SELECT 1",
		"```sql SELECT 1```":                             "SELECT 1",
		"```SELECT 1```":                                 "SELECT 1",
		"```mysql\nSELECT '```' AS tick\n```":            "SELECT '```' AS tick",
		"```sql\nSELECT a\nFROM t\nWHERE b = 'sql'\n```": "SELECT a\nFROM t\nWHERE b = 'sql'",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFence(in), in)
	}
}
