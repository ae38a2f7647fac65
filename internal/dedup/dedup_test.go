package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func names(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.CompanyName
	}
	return out
}

func TestRun_EmptyInput(t *testing.T) {
	d := New(85)
	assert.Empty(t, d.Run(nil))
}

func TestRun_ExactIDShortCircuit(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{ID: "place-1", CompanyName: "Mekong Asia Import", City: "Berlin"},
		{ID: "place-1", CompanyName: "Completely Different Trading", City: "Hamburg"},
	}
	out := d.Run(records)
	require.Len(t, out, 1)
	assert.Equal(t, "Mekong Asia Import", out[0].CompanyName)
}

func TestRun_WebsiteMatchIsCaseSensitive(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{CompanyName: "A", Website: "https://example.com"},
		{CompanyName: "B", Website: "https://example.com"},
		{CompanyName: "C", Website: "https://EXAMPLE.com"},
	}
	out := d.Run(records)
	assert.Equal(t, []string{"A", "C"}, names(out))
}

func TestRun_PhoneNormalizationMatch(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{CompanyName: "Duc Viet Food", City: "Berlin", Phone: "+49 (0)30 1234567"},
		{CompanyName: "Saigon Market", City: "Berlin", Phone: "0049-30-1234567"},
	}
	out := d.Run(records)
	require.Len(t, out, 1)
	assert.Equal(t, "Duc Viet Food", out[0].CompanyName)
}

func TestRun_FuzzyNameRequiresSameCity(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{CompanyName: "Asia Food Import GmbH", City: "Berlin"},
		{CompanyName: "Asia Food Import Ltd", City: "Hamburg"},
	}
	assert.Len(t, d.Run(records), 2)

	records[1].City = "berlin" // city comparison is case-insensitive
	assert.Len(t, d.Run(records), 1)
}

func TestRun_OrderPreserved(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{CompanyName: "Zeta Trading", City: "Lyon"},
		{CompanyName: "Alpha Foods", City: "Paris"},
		{CompanyName: "Zeta Trading SARL", City: "Lyon"},
		{CompanyName: "Midway Logistics", City: "Nice"},
	}
	out := d.Run(records)
	assert.Equal(t, []string{"Zeta Trading", "Alpha Foods", "Midway Logistics"}, names(out))
}

func TestRun_Idempotent(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{ID: "x", CompanyName: "Mekong Import", City: "Berlin"},
		{CompanyName: "Mekong Import GmbH", City: "Berlin"},
		{CompanyName: "Nordsee Kühlhaus", City: "Hamburg"},
		{ID: "x", CompanyName: "Mekong", City: "Berlin"},
	}
	once := d.Run(records)
	twice := d.Run(once)
	assert.Equal(t, once, twice)
}

func TestRun_InputNotMutated(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{CompanyName: "Asia Markt", City: "Berlin"},
		{CompanyName: "Asia Markt", City: "Berlin"},
	}
	_ = d.Run(records)
	assert.Equal(t, "Asia Markt", records[1].CompanyName)
	assert.Len(t, records, 2)
}

// Matching never chains through suppressed records: with sim(A,B) and
// sim(B,C) above threshold but sim(A,C) below it, B is suppressed by A and C
// survives because it is only ever compared against A.
func TestRun_NonTransitiveClusters(t *testing.T) {
	d := New(85)
	records := []model.Record{
		{CompanyName: "Kaiser Handel", City: "Berlin"},
		{CompanyName: "Kaiser Handels", City: "Berlin"},
		{CompanyName: "Kaiser Handelsxy", City: "Berlin"},
	}

	ab := TokenSetRatio(NormalizeName(records[0].CompanyName), NormalizeName(records[1].CompanyName))
	bc := TokenSetRatio(NormalizeName(records[1].CompanyName), NormalizeName(records[2].CompanyName))
	ac := TokenSetRatio(NormalizeName(records[0].CompanyName), NormalizeName(records[2].CompanyName))
	require.GreaterOrEqual(t, ab, 85)
	require.GreaterOrEqual(t, bc, 85)
	require.Less(t, ac, 85)

	out := d.Run(records)
	assert.Equal(t, []string{"Kaiser Handel", "Kaiser Handelsxy"}, names(out))
}

func TestNew_DefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, New(0).Threshold)
	assert.Equal(t, 70, New(70).Threshold)
}
