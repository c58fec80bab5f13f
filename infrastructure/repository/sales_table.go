// Package repository contém as fontes de dados em banco para os datasets de vendas
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/tabular"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// salesTableRepository lê um dataset de vendas de uma tabela Postgres.
// Apenas leitura: o dashboard nunca grava no banco.
type salesTableRepository struct {
	conn postgres.Queryer
}

func NewSalesTableRepository(conn postgres.Queryer) tabular.Reader {
	return &salesTableRepository{
		conn: conn,
	}
}

// buildSalesTableQuery monta a consulta devolvendo as colunas com os nomes dos arquivos CSV
func buildSalesTableQuery(table string) (string, []interface{}, error) {
	if !tableNamePattern.MatchString(table) {
		return "", nil, fmt.Errorf("nome de tabela inválido: %q", table)
	}

	return squirrel.
		Select(
			fmt.Sprintf(`CAST(bulan AS TEXT) AS "%s"`, domain.ColumnMonth),
			fmt.Sprintf(`kategori_produk AS "%s"`, domain.ColumnProductCategory),
			fmt.Sprintf(`suku_cadang AS "%s"`, domain.ColumnPartName),
			fmt.Sprintf(`CAST(total_penjualan AS TEXT) AS "%s"`, domain.ColumnTotalSales),
		).
		From(table).
		OrderBy("bulan ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *salesTableRepository) ReadTable(ctx context.Context, table string) (*tabular.Table, error) {
	query, args, err := buildSalesTableQuery(table)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("erro ao obter colunas: %w", err)
	}

	result := &tabular.Table{
		Header: columns,
		Rows:   make([][]string, 0),
	}

	for rows.Next() {
		row, err := r.scanRow(rows, len(columns))
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha de vendas: %w", err)
		}
		result.Rows = append(result.Rows, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return result, nil
}

func (r *salesTableRepository) scanRow(rows *sql.Rows, size int) ([]string, error) {
	values := make([]sql.NullString, size)
	dest := make([]interface{}, size)
	for i := range values {
		dest[i] = &values[i]
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make([]string, size)
	for i, v := range values {
		if v.Valid {
			row[i] = v.String
		}
	}

	return row, nil
}
