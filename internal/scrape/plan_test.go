package scrape

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSearchesCrossProduct(t *testing.T) {
	p := &Plan{
		Name: "test",
		Regions: []Region{
			{
				Name:    "A",
				Queries: []string{"q1", "q2"},
				Locations: []Location{
					{Name: "X", RadiusKM: 10},
					{Name: "Y", RadiusKM: 10},
				},
			},
			{
				Name:      "B",
				Queries:   []string{"q3"},
				Locations: []Location{{Name: "Z", RadiusKM: 10}},
			},
		},
	}

	searches := p.Searches()
	require.Len(t, searches, 5)
	assert.Equal(t, Search{Region: "A", Query: "q1", Location: Location{Name: "X", RadiusKM: 10}}, searches[0])
	assert.Equal(t, "Y", searches[1].Location.Name)
	assert.Equal(t, "q2", searches[2].Query)
	assert.Equal(t, Search{Region: "B", Query: "q3", Location: Location{Name: "Z", RadiusKM: 10}}, searches[4])
}

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		want string
	}{
		{"missing name", Plan{}, "missing name"},
		{"no regions", Plan{Name: "p"}, "no regions"},
		{"no queries", Plan{Name: "p", Regions: []Region{{Name: "r", Locations: []Location{{Name: "x", RadiusKM: 1}}}}}, "no queries"},
		{"no locations", Plan{Name: "p", Regions: []Region{{Name: "r", Queries: []string{"q"}}}}, "no locations"},
		{"zero radius", Plan{Name: "p", Regions: []Region{{Name: "r", Queries: []string{"q"}, Locations: []Location{{Name: "x"}}}}}, "no radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: custom
source: google_maps_textsearch
regions:
  - name: Germany
    queries:
      - "Kühlhaus Köln"
    locations:
      - name: Cologne
        latitude: 50.94
        longitude: 6.96
        radius_km: 40
`), 0o644))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	require.Len(t, p.Regions, 1)
	assert.Equal(t, "Kühlhaus Köln", p.Regions[0].Queries[0])
	assert.Equal(t, 40.0, p.Regions[0].Locations[0].RadiusKM)
}

func TestLoadPlanInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPlan(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [unclosed"), 0o644))
	_, err = LoadPlan(bad)
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("name: p\n"), 0o644))
	_, err = LoadPlan(empty)
	require.Error(t, err)
}

func TestDefaultPlans(t *testing.T) {
	for _, name := range []string{"horeca", "warehouse"} {
		p, err := DefaultPlan(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
		require.NoError(t, p.Validate())
		assert.NotEmpty(t, p.Searches())
	}

	p, err := DefaultPlan("")
	require.NoError(t, err)
	assert.Equal(t, "horeca", p.Name)

	_, err = DefaultPlan("nope")
	require.Error(t, err)
}
