package classify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeOracle replays canned batch responses and records every prompt.
type fakeOracle struct {
	responses []fakeResponse
	prompts   []string
}

type fakeResponse struct {
	results []map[string]any
	err     error
}

func (f *fakeOracle) Classify(_ context.Context, prompt string) ([]map[string]any, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.responses) == 0 {
		return nil, errors.New("no canned response")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.results, resp.err
}

func makeRecords(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = model.Record{
			ID:          fmt.Sprintf("place-%02d", i+1),
			CompanyName: fmt.Sprintf("Company %02d", i+1),
			City:        "Berlin",
		}
	}
	return out
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		CheckpointPath: filepath.Join(t.TempDir(), "classified.csv"),
		Delay:          -1,
		Retry:          resilience.RetryConfig{MaxAttempts: 1},
	}
}

func TestRunShortResponseMarksTailSkipped(t *testing.T) {
	records := makeRecords(10)

	results := make([]map[string]any, 7)
	for i := range results {
		results[i] = map[string]any{
			"record_index":                 float64(i + 1),
			model.PriorityScoreKey:         float64(i + 1),
			model.ContactRecommendationKey: fmt.Sprintf("call %d", i+1),
		}
	}
	oracle := &fakeOracle{responses: []fakeResponse{{results: results}}}

	out, err := New(oracle, HorecaPrompt{}, testConfig(t)).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 10)
	require.Len(t, oracle.prompts, 1)

	for i := 0; i < 7; i++ {
		assert.Equal(t, fmt.Sprintf("call %d", i+1), out[i].Get(model.ContactRecommendationKey), "record %d", i+1)
		score, ok := out[i].PriorityScore()
		require.True(t, ok)
		assert.Equal(t, i+1, score)
		assert.Empty(t, out[i].Get("record_index"))
	}
	for i := 7; i < 10; i++ {
		assert.Equal(t, SentinelRecommendation, out[i].Get(model.ContactRecommendationKey), "record %d", i+1)
		_, ok := out[i].PriorityScore()
		assert.False(t, ok)
	}
}

func TestRunOverlongResponseNeverShiftsPositions(t *testing.T) {
	records := makeRecords(2)
	oracle := &fakeOracle{responses: []fakeResponse{{results: []map[string]any{
		{model.ContactRecommendationKey: "first"},
		{model.ContactRecommendationKey: "second"},
		{model.ContactRecommendationKey: "phantom"},
	}}}}

	out, err := New(oracle, HorecaPrompt{}, testConfig(t)).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Get(model.ContactRecommendationKey))
	assert.Equal(t, "second", out[1].Get(model.ContactRecommendationKey))
}

func TestRunOracleFailureDegradesToSentinels(t *testing.T) {
	records := makeRecords(4)
	cfg := testConfig(t)
	cfg.BatchSize = 2

	oracle := &fakeOracle{responses: []fakeResponse{
		{err: errors.New("boom")},
		{results: []map[string]any{
			{model.ContactRecommendationKey: "ok 3"},
			{model.ContactRecommendationKey: "ok 4"},
		}},
	}}

	out, err := New(oracle, HorecaPrompt{}, cfg).Run(context.Background(), records)
	require.NoError(t, err, "oracle failure must not abort the run")
	require.Len(t, out, 4)
	assert.Equal(t, SentinelRecommendation, out[0].Get(model.ContactRecommendationKey))
	assert.Equal(t, SentinelRecommendation, out[1].Get(model.ContactRecommendationKey))
	assert.Equal(t, "ok 3", out[2].Get(model.ContactRecommendationKey))
	assert.Equal(t, "ok 4", out[3].Get(model.ContactRecommendationKey))
}

func TestRunInputNotMutated(t *testing.T) {
	records := makeRecords(1)
	oracle := &fakeOracle{responses: []fakeResponse{{results: []map[string]any{
		{model.ContactRecommendationKey: "merged"},
	}}}}

	_, err := New(oracle, HorecaPrompt{}, testConfig(t)).Run(context.Background(), records)
	require.NoError(t, err)
	assert.Nil(t, records[0].Extra, "caller's records must stay untouched")
}

func TestRunCheckpointWrittenPerBatch(t *testing.T) {
	records := makeRecords(4)
	cfg := testConfig(t)
	cfg.BatchSize = 2

	oracle := &fakeOracle{responses: []fakeResponse{
		{results: []map[string]any{
			{model.ContactRecommendationKey: "a"},
			{model.ContactRecommendationKey: "b"},
		}},
		{results: []map[string]any{
			{model.ContactRecommendationKey: "c"},
			{model.ContactRecommendationKey: "d"},
		}},
	}}

	out, err := New(oracle, HorecaPrompt{}, cfg).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 4)

	saved, err := store.LoadCSV(cfg.CheckpointPath)
	require.NoError(t, err)
	require.Len(t, saved, 4)
	assert.Equal(t, "place-01", saved[0].ID)
	assert.Equal(t, "d", saved[3].Get(model.ContactRecommendationKey))
}

func TestRunResumeSkipsCheckpointedRecords(t *testing.T) {
	records := makeRecords(4)
	cfg := testConfig(t)
	cfg.BatchSize = 2
	cfg.Resume = true

	done := make([]model.Record, 2)
	for i := range done {
		done[i] = records[i].Clone()
		done[i].Merge(map[string]any{model.ContactRecommendationKey: "prior"})
	}
	require.NoError(t, store.SaveCSV(done, cfg.CheckpointPath))

	oracle := &fakeOracle{responses: []fakeResponse{
		{results: []map[string]any{
			{model.ContactRecommendationKey: "fresh 3"},
			{model.ContactRecommendationKey: "fresh 4"},
		}},
	}}

	out, err := New(oracle, HorecaPrompt{}, cfg).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, oracle.prompts, 1, "checkpointed records must not be re-sent")
	require.Len(t, out, 4)
	assert.Equal(t, "prior", out[0].Get(model.ContactRecommendationKey))
	assert.Equal(t, "fresh 3", out[2].Get(model.ContactRecommendationKey))
}

func TestRunResumeFullyClassified(t *testing.T) {
	records := makeRecords(3)
	cfg := testConfig(t)
	cfg.Resume = true

	done := make([]model.Record, len(records))
	for i := range done {
		done[i] = records[i].Clone()
		done[i].Merge(map[string]any{model.ContactRecommendationKey: "prior"})
	}
	require.NoError(t, store.SaveCSV(done, cfg.CheckpointPath))

	oracle := &fakeOracle{}
	out, err := New(oracle, HorecaPrompt{}, cfg).Run(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, oracle.prompts, "fully classified input must cost zero calls")
	assert.Len(t, out, 3)
}

func TestRunResumeMissingCheckpointStartsFresh(t *testing.T) {
	records := makeRecords(1)
	cfg := testConfig(t)
	cfg.Resume = true

	oracle := &fakeOracle{responses: []fakeResponse{{results: []map[string]any{
		{model.ContactRecommendationKey: "fresh"},
	}}}}

	out, err := New(oracle, HorecaPrompt{}, cfg).Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "fresh", out[0].Get(model.ContactRecommendationKey))
}

func TestRunResumeCorruptCheckpointFatal(t *testing.T) {
	records := makeRecords(2)
	cfg := testConfig(t)
	cfg.Resume = true
	require.NoError(t, os.WriteFile(cfg.CheckpointPath, []byte("id,company_name\n\"broken"), 0o644))

	oracle := &fakeOracle{}
	_, err := New(oracle, HorecaPrompt{}, cfg).Run(context.Background(), records)
	require.Error(t, err)
	assert.Empty(t, oracle.prompts, "corrupt checkpoint must fail before any oracle call")
}

func TestRunEmptyInputWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	oracle := &fakeOracle{}

	out, err := New(oracle, HorecaPrompt{}, cfg).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, oracle.prompts)
	_, statErr := os.Stat(cfg.CheckpointPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	oracle := &fakeOracle{}
	_, err := New(oracle, HorecaPrompt{}, testConfig(t)).Run(ctx, makeRecords(1))
	require.Error(t, err)
	assert.Empty(t, oracle.prompts)
}
