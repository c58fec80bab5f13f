// Package tabular lê arquivos tabulares (CSV e XLSX) para uma representação comum
package tabular

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/utils"
	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyTable        = errors.New("tabela sem cabeçalho")
	ErrUnsupportedFormat = errors.New("formato de arquivo não suportado")
)

// Reader lê uma tabela a partir de um local (caminho de arquivo ou nome de tabela)
type Reader interface {
	ReadTable(ctx context.Context, location string) (*Table, error)
}

// Table é o conteúdo bruto de um dataset: cabeçalho e linhas como texto
type Table struct {
	Header []string
	Rows   [][]string
	// DateSerials indica que datas podem vir como número serial do Excel
	DateSerials bool
}

// ColumnIndex retorna a posição da coluna ou -1 se não existir
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell retorna o valor da célula ou vazio quando a linha é mais curta que o cabeçalho
func (t *Table) Cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// ParseDate interpreta uma célula de data, aceitando seriais do Excel em planilhas
func (t *Table) ParseDate(value string) (time.Time, error) {
	date, err := utils.ParseFlexibleDate(value)
	if err == nil || !t.DateSerials {
		return date, err
	}

	serial, convErr := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if convErr != nil {
		return time.Time{}, err
	}

	return excelize.ExcelDateToTime(serial, false)
}

func normalizeHeader(header []string) []string {
	normalized := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		normalized[i] = strings.TrimSpace(h)
	}
	return normalized
}
