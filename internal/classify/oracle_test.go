package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

type stubMessages struct {
	lastReq anthropic.MessageRequest
	text    string
	err     error
}

func (s *stubMessages) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: s.text}},
	}, nil
}

func TestClaudeOracleClassify(t *testing.T) {
	stub := &stubMessages{text: "```json\n[{\"record_index\": 1, \"priority_score\": 8}]\n```"}
	oracle := NewClaudeOracle(stub, "claude-3-5-haiku-latest", 2048)

	results, err := oracle.Classify(context.Background(), "the prompt")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, float64(8), results[0]["priority_score"])

	assert.Equal(t, "claude-3-5-haiku-latest", stub.lastReq.Model)
	assert.Equal(t, oracleSystemPrompt, stub.lastReq.System)
	require.Len(t, stub.lastReq.Messages, 1)
	assert.Equal(t, "the prompt", stub.lastReq.Messages[0].Content)
	assert.Equal(t, 1, oracle.Calls())
}

func TestClaudeOracleClassifyBadJSON(t *testing.T) {
	stub := &stubMessages{text: "I could not produce JSON today."}
	oracle := NewClaudeOracle(stub, "claude-3-5-haiku-latest", 0)

	_, err := oracle.Classify(context.Background(), "p")
	require.Error(t, err)
}

func TestCleanJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"plain fence", "```\n[1]\n```", "[1]"},
		{"prose wrapped", "Here are the results:\n[{\"a\":1}]\nHope that helps.", `[{"a":1}]`},
		{"whitespace", "  \n[1]\n  ", "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONArray(tt.in))
		})
	}
}
