// Package store persists lead records as stage CSVs and run history in a
// SQL database.
package store

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SaveCSV writes records to path as a whole-file rewrite. The header is the
// ordered field set of the first record; records missing a header column
// serialize as empty cells and keys beyond the header are silently dropped.
// An empty record list writes nothing.
func SaveCSV(records []model.Record, path string) error {
	if len(records) == 0 {
		zap.L().Warn("no records to save", zap.String("path", path))
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "store: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	header := records[0].Fields()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrapf(err, "store: write header %s", path)
	}

	row := make([]string, len(header))
	for i := range records {
		for c, col := range header {
			row[c] = records[i].Get(col)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "store: write row %s", path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "store: flush %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "store: close %s", path)
	}

	zap.L().Info("saved records", zap.Int("count", len(records)), zap.String("path", path))
	return nil
}

// LoadCSV reads records from a stage CSV. Empty cells are skipped so that a
// missing value and an absent column are indistinguishable on the record.
func LoadCSV(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: read header %s", path)
	}

	var records []model.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "store: read row %s", path)
		}

		var rec model.Record
		for c, col := range header {
			if c >= len(row) || row[c] == "" {
				continue
			}
			rec.Set(col, row[c])
		}
		records = append(records, rec)
	}

	zap.L().Info("loaded records", zap.Int("count", len(records)), zap.String("path", path))
	return records, nil
}
