// Package aggregating contém as agregações group-by-sum do dashboard
package aggregating

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
)

// DefaultTopProductsLimit é o tamanho do ranking de produtos
const DefaultTopProductsLimit = 10

type groupKey struct {
	key    string
	origin domain.DataOrigin
}

// groupSum agrupa por (chave, origem) e soma os valores. As linhas saem
// ordenadas por chave e depois por origem.
func groupSum(
	records []domain.SalesRecord,
	keyOf func(domain.SalesRecord) string,
	valueOf func(domain.SalesRecord) float64,
) []domain.AggregateRow {
	sums := make(map[groupKey]decimal.Decimal)
	keys := make([]groupKey, 0)

	for _, record := range records {
		k := groupKey{key: keyOf(record), origin: record.DataOrigin}
		sum, ok := sums[k]
		if !ok {
			keys = append(keys, k)
			sum = decimal.Zero
		}
		sums[k] = sum.Add(decimal.NewFromFloat(valueOf(record)))
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].key != keys[j].key {
			return keys[i].key < keys[j].key
		}
		return keys[i].origin < keys[j].origin
	})

	rows := make([]domain.AggregateRow, 0, len(keys))
	for _, k := range keys {
		value, _ := sums[k].Float64()
		rows = append(rows, domain.AggregateRow{
			Key:        k.key,
			DataOrigin: k.origin,
			Value:      value,
		})
	}

	return rows
}

func valueOf(column domain.ValueColumn) func(domain.SalesRecord) float64 {
	return func(record domain.SalesRecord) float64 {
		return record.Value(column)
	}
}

func monthOf(record domain.SalesRecord) string    { return record.Month }
func categoryOf(record domain.SalesRecord) string { return record.ProductCategory }
func partOf(record domain.SalesRecord) string     { return record.PartName }

// MonthlyTrend soma a coluna por (mês, origem), em ordem crescente de mês
func MonthlyTrend(records []domain.SalesRecord, column domain.ValueColumn) []domain.AggregateRow {
	return groupSum(records, monthOf, valueOf(column))
}

// CategoryDistribution soma a coluna por (categoria, origem)
func CategoryDistribution(records []domain.SalesRecord, column domain.ValueColumn) []domain.AggregateRow {
	return groupSum(records, categoryOf, valueOf(column))
}

// TopProducts soma por (peça, origem) e mantém as maiores somas no geral,
// não por origem. Empates: peça em ordem alfabética, depois origem.
func TopProducts(records []domain.SalesRecord, column domain.ValueColumn, limit int) []domain.AggregateRow {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}

	rows := groupSum(records, partOf, valueOf(column))
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		if rows[i].Key != rows[j].Key {
			return rows[i].Key < rows[j].Key
		}
		return rows[i].DataOrigin < rows[j].DataOrigin
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}

	return rows
}

// Comparison soma sempre a coluna combinada por (mês, origem)
func Comparison(records []domain.SalesRecord) []domain.AggregateRow {
	return groupSum(records, monthOf, valueOf(domain.ValueColumnCombined))
}

// Aggregate calcula as visões do dashboard para a visão escolhida
func Aggregate(records []domain.SalesRecord, view domain.DatasetView, topLimit int) *domain.Aggregates {
	column := view.ValueColumn()

	aggregates := &domain.Aggregates{
		ValueColumn:          column,
		MonthlyTrend:         MonthlyTrend(records, column),
		CategoryDistribution: CategoryDistribution(records, column),
		TopProducts:          TopProducts(records, column, topLimit),
	}

	if view.IsComparison() {
		aggregates.Comparison = Comparison(records)
	}

	return aggregates
}

// Total soma os valores de um conjunto de linhas agregadas
func Total(rows []domain.AggregateRow) float64 {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.Value))
	}
	value, _ := total.Float64()
	return value
}
