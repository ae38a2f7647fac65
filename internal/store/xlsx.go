package store

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SaveXLSX writes records to an XLSX workbook with a single sheet, using the
// same header semantics as SaveCSV. An empty record list writes nothing.
func SaveXLSX(records []model.Record, path, sheetName string) error {
	if len(records) == 0 {
		zap.L().Warn("no records to export", zap.String("path", path))
		return nil
	}
	if sheetName == "" {
		sheetName = "Prospects"
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "store: add sheet %s", sheetName)
	}

	header := records[0].Fields()
	headerRow := sheet.AddRow()
	for _, col := range header {
		headerRow.AddCell().Value = col
	}

	for i := range records {
		row := sheet.AddRow()
		for _, col := range header {
			row.AddCell().Value = records[i].Get(col)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "store: save %s", path)
	}

	zap.L().Info("exported workbook", zap.Int("count", len(records)), zap.String("path", path))
	return nil
}
