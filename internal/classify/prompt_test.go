package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestHorecaPromptBuild(t *testing.T) {
	batch := []model.Record{
		{CompanyName: "Asia Food GmbH", FullAddress: "Kantstr. 1, Berlin", Website: "https://asiafood.example", Phone: "+49 30 123", Types: "wholesaler"},
		{CompanyName: "Duck Depot"},
	}

	prompt := HorecaPrompt{}.Build(batch)

	assert.Contains(t, prompt, "--- Record 1 ---")
	assert.Contains(t, prompt, "--- Record 2 ---")
	assert.Contains(t, prompt, "Company Name: Asia Food GmbH")
	assert.Contains(t, prompt, "Website: https://asiafood.example")
	assert.Contains(t, prompt, "Website: N/A", "missing fields render as N/A")
	assert.Contains(t, prompt, "record_index")
	assert.Contains(t, prompt, "is_horeca_distributor")
	assert.Contains(t, prompt, "priority_score")
	assert.Contains(t, prompt, "JSON ARRAY")
}

func TestWarehousePromptBuild(t *testing.T) {
	prompt := WarehousePrompt{}.Build([]model.Record{{CompanyName: "Kühlhaus Nord"}})

	assert.Contains(t, prompt, "Company Name: Kühlhaus Nord")
	assert.Contains(t, prompt, "is_cold_storage_warehouse")
	assert.Contains(t, prompt, "likely_pallet_capacity")
	assert.Contains(t, prompt, "priority_score")
}

func TestBuilderFor(t *testing.T) {
	b, err := BuilderFor("horeca")
	require.NoError(t, err)
	assert.Equal(t, "horeca", b.Name())

	b, err = BuilderFor("")
	require.NoError(t, err)
	assert.Equal(t, "horeca", b.Name())

	b, err = BuilderFor("warehouse")
	require.NoError(t, err)
	assert.Equal(t, "warehouse", b.Name())

	_, err = BuilderFor("mystery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}
