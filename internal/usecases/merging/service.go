// Package merging une os datasets de predição e anteriores à predição
package merging

import (
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
)

// Tag copia os registros marcando todos com a origem informada
func Tag(records []domain.SalesRecord, origin domain.DataOrigin) []domain.SalesRecord {
	tagged := make([]domain.SalesRecord, len(records))
	for i, record := range records {
		record.DataOrigin = origin
		tagged[i] = record
	}
	return tagged
}

// Merge marca a origem de cada dataset, concatena (predição primeiro) e calcula
// a coluna combinada. Os datasets de entrada não são alterados.
func Merge(datasets ...*domain.Dataset) []domain.SalesRecord {
	total := 0
	for _, dataset := range datasets {
		if dataset != nil {
			total += len(dataset.Records)
		}
	}

	merged := make([]domain.SalesRecord, 0, total)
	for _, dataset := range datasets {
		if dataset == nil {
			continue
		}
		merged = append(merged, Tag(dataset.Records, dataset.Origin)...)
	}

	for i := range merged {
		merged[i].CombinedSales = merged[i].Coalesce()
	}

	return merged
}
