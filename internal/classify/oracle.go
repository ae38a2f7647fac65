package classify

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

// Oracle is the opaque classification judge. It takes one prompt built from
// a batch of records and returns an ordered list of enrichment objects
// positionally aligned to the batch; the list may be shorter than the batch.
type Oracle interface {
	Classify(ctx context.Context, prompt string) ([]map[string]any, error)
}

const oracleSystemPrompt = "You are a business analyst. Always return a valid JSON array."

// ClaudeOracle implements Oracle over the Anthropic Messages API.
type ClaudeOracle struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	calls     atomic.Int64
	usage     anthropic.TokenUsage
}

// NewClaudeOracle creates a ClaudeOracle for the given model.
func NewClaudeOracle(client anthropic.Client, model string, maxTokens int64) *ClaudeOracle {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &ClaudeOracle{client: client, model: model, maxTokens: maxTokens}
}

// Classify sends one batch prompt and parses the positional JSON array reply.
func (o *ClaudeOracle) Classify(ctx context.Context, prompt string) ([]map[string]any, error) {
	temp := 0.2
	resp, err := o.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       o.model,
		MaxTokens:   o.maxTokens,
		System:      oracleSystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: create message")
	}

	o.calls.Add(1)
	o.usage.Add(resp.Usage)

	var results []map[string]any
	if err := json.Unmarshal([]byte(cleanJSONArray(resp.Text())), &results); err != nil {
		return nil, eris.Wrap(err, "oracle: parse response")
	}
	return results, nil
}

// Calls returns the number of successful oracle invocations.
func (o *ClaudeOracle) Calls() int {
	return int(o.calls.Load())
}

// Usage returns accumulated token usage.
func (o *ClaudeOracle) Usage() anthropic.TokenUsage {
	return o.usage
}

// cleanJSONArray extracts a JSON array from text that may contain markdown
// code fences or other wrapping.
func cleanJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first [ and last ].
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
