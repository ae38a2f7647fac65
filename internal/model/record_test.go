package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordUID_PrefersID(t *testing.T) {
	r := Record{ID: "abc123", CompanyName: "Asia Foods", City: "Berlin"}
	assert.Equal(t, "abc123", r.UID())
}

func TestRecordUID_FallsBackToNameCity(t *testing.T) {
	r := Record{CompanyName: "Asia Foods", City: "Berlin"}
	assert.Equal(t, "Asia Foods_Berlin", r.UID())
}

func TestRecordGetSet_Roundtrip(t *testing.T) {
	var r Record
	r.Set("company_name", "Mekong GmbH")
	r.Set("latitude", "52.52")
	r.Set("review_count", "14")
	r.Set("priority_score", "8")

	assert.Equal(t, "Mekong GmbH", r.CompanyName)
	assert.NotNil(t, r.Latitude)
	assert.Equal(t, 52.52, *r.Latitude)
	assert.Equal(t, 14, r.ReviewCount)
	assert.Equal(t, "8", r.Get("priority_score"))
}

func TestRecordSet_MalformedNumericIsAbsent(t *testing.T) {
	var r Record
	r.Set("latitude", "not-a-number")
	assert.Nil(t, r.Latitude)
	assert.Equal(t, "", r.Get("latitude"))
}

func TestRecordMerge_OverwritesAndCoerces(t *testing.T) {
	r := Record{CompanyName: "Old Name", Extra: map[string]string{"priority_score": "3"}}
	r.Merge(map[string]any{
		"company_name":           "New Name",
		"is_horeca_distributor":  true,
		"priority_score":         float64(9),
		"contact_recommendation": "Call them",
	})

	assert.Equal(t, "New Name", r.CompanyName)
	assert.Equal(t, "true", r.Extra["is_horeca_distributor"])
	assert.Equal(t, "9", r.Extra["priority_score"])
	assert.Equal(t, "Call them", r.Extra["contact_recommendation"])
}

func TestPriorityScore(t *testing.T) {
	r := Record{Extra: map[string]string{"priority_score": "7"}}
	score, ok := r.PriorityScore()
	assert.True(t, ok)
	assert.Equal(t, 7, score)

	// Float serialization from a CSV reload still parses.
	r.Extra["priority_score"] = "7.0"
	score, ok = r.PriorityScore()
	assert.True(t, ok)
	assert.Equal(t, 7, score)

	r.Extra["priority_score"] = ""
	_, ok = r.PriorityScore()
	assert.False(t, ok)

	var empty Record
	_, ok = empty.PriorityScore()
	assert.False(t, ok)
}

func TestRecordFields_CoreThenSortedExtra(t *testing.T) {
	r := Record{Extra: map[string]string{"z_last": "1", "a_first": "2"}}
	fields := r.Fields()
	assert.Equal(t, "id", fields[0])
	assert.Equal(t, "a_first", fields[len(fields)-2])
	assert.Equal(t, "z_last", fields[len(fields)-1])
}

func TestRecordClone_DoesNotShareExtra(t *testing.T) {
	r := Record{Extra: map[string]string{"k": "v"}}
	c := r.Clone()
	c.Extra["k"] = "changed"
	assert.Equal(t, "v", r.Extra["k"])
}
