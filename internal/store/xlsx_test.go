package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prospects.xlsx")
	records := []model.Record{
		{ID: "a", CompanyName: "Asia Food", City: "Berlin"},
		{ID: "b", CompanyName: "Duck Depot", City: "Hamburg"},
	}

	require.NoError(t, SaveXLSX(records, path, "Prospects"))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "Prospects", f.Sheets[0].Name)

	rows := f.Sheets[0].Rows
	require.Len(t, rows, 3, "header plus two records")
	assert.Equal(t, "id", rows[0].Cells[0].Value)
	assert.Equal(t, "a", rows[1].Cells[0].Value)
	assert.Equal(t, "Asia Food", rows[1].Cells[1].Value)
	assert.Equal(t, "Hamburg", rows[2].Cells[3].Value)
}

func TestSaveXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, SaveXLSX(nil, path, ""))
	assert.NoFileExists(t, path)
}
