package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// FileReader lê datasets de arquivos locais, escolhendo o formato pela extensão
type FileReader struct{}

func NewFileReader() *FileReader {
	return &FileReader{}
}

func (r *FileReader) ReadTable(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return readCSV(path)
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "arquivo %s", path)
	}
}

func readCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir csv %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler csv %s", path)
	}

	if len(records) == 0 {
		return nil, errors.Wrapf(ErrEmptyTable, "arquivo %s", path)
	}

	return &Table{
		Header: normalizeHeader(records[0]),
		Rows:   records[1:],
	}, nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir planilha %s", path)
	}
	defer f.Close()

	// Usa sempre a primeira aba da planilha
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler aba %q de %s", sheet, path)
	}

	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrEmptyTable, "planilha %s", path)
	}

	return &Table{
		Header:      normalizeHeader(rows[0]),
		Rows:        rows[1:],
		DateSerials: true,
	}, nil
}
