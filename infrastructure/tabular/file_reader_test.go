package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileReader_ReadCSV(t *testing.T) {
	path := writeFile(t, "vendas.csv", "\ufeffBulan, Kategori Produk,Suku Cadang,Total Penjualan\n"+
		"2024-01-15,Brake,Pad-X,100\n"+
		"2024-02-01,Engine\n")

	table, err := NewFileReader().ReadTable(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bulan", "Kategori Produk", "Suku Cadang", "Total Penjualan"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.False(t, table.DateSerials)

	idx := table.ColumnIndex("Total Penjualan")
	assert.Equal(t, 3, idx)
	assert.Equal(t, "100", table.Cell(table.Rows[0], idx))
	// Linha curta não quebra a leitura
	assert.Equal(t, "", table.Cell(table.Rows[1], idx))
	assert.Equal(t, -1, table.ColumnIndex("Inexistente"))
}

func TestFileReader_EmptyCSV(t *testing.T) {
	path := writeFile(t, "vazio.csv", "")

	_, err := NewFileReader().ReadTable(context.Background(), path)
	assert.True(t, errors.Is(err, ErrEmptyTable))
}

func TestFileReader_MissingFile(t *testing.T) {
	_, err := NewFileReader().ReadTable(context.Background(), filepath.Join(t.TempDir(), "nao-existe.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileReader_UnsupportedFormat(t *testing.T) {
	_, err := NewFileReader().ReadTable(context.Background(), "dados.parquet")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFileReader_ReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Bulan", "Kategori Produk", "Suku Cadang", "Total Penjualan"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024-01-15", "Brake", "Pad-X", 100}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{45306, "Engine", "Piston", 50.5}))

	path := filepath.Join(t.TempDir(), "vendas.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := NewFileReader().ReadTable(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, table.DateSerials)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Pad-X", table.Cell(table.Rows[0], table.ColumnIndex("Suku Cadang")))

	first, err := table.ParseDate(table.Cell(table.Rows[0], 0))
	require.NoError(t, err)
	assert.Equal(t, "2024-01", first.Format("2006-01"))

	serial, err := table.ParseDate(table.Cell(table.Rows[1], 0))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", serial.Format("2006-01-02"))
}

func TestTable_ParseDate_NoSerialsForCSV(t *testing.T) {
	table := &Table{}

	_, err := table.ParseDate("45306")
	assert.Error(t, err)
}

func TestTable_ParseDate_PostgresTimestamptz(t *testing.T) {
	table := &Table{}

	date, err := table.ParseDate("2024-01-15 00:00:00+00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", date.Format("2006-01"))
}

func TestFileReader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileReader().ReadTable(ctx, "dados.csv")
	assert.ErrorIs(t, err, context.Canceled)
}
