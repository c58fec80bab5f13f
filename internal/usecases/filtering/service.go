// Package filtering aplica os filtros de mês e categoria do sidebar
package filtering

import (
	"errors"

	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
)

// ErrNoDataForFilter indica que a combinação de filtros não retornou linhas.
// É diferente de um resultado com linhas cujos valores são todos zero.
var ErrNoDataForFilter = errors.New("no data for the selected filters")

// isAll indica se o valor do seletor significa "sem filtro"
func isAll(value string) bool {
	return value == "" || value == domain.AllSentinel
}

// Apply retorna as linhas que atendem a seleção (igualdade, combinadas com AND)
func Apply(records []domain.SalesRecord, selection domain.Selection) ([]domain.SalesRecord, error) {
	filtered := make([]domain.SalesRecord, 0, len(records))
	for _, record := range records {
		if !isAll(selection.Month) && record.Month != selection.Month {
			continue
		}
		if !isAll(selection.Category) && record.ProductCategory != selection.Category {
			continue
		}
		filtered = append(filtered, record)
	}

	if len(filtered) == 0 {
		return nil, ErrNoDataForFilter
	}

	return filtered, nil
}

// Options monta as listas dos seletores: valores únicos na ordem em que aparecem,
// precedidos pelo sentinela
func Options(records []domain.SalesRecord) *domain.FilterOptions {
	options := &domain.FilterOptions{
		Views:      make([]domain.ViewOption, 0, len(domain.DatasetViews)),
		Months:     []string{domain.AllSentinel},
		Categories: []string{domain.AllSentinel},
	}

	for _, view := range domain.DatasetViews {
		options.Views = append(options.Views, domain.ViewOption{Value: view, Label: view.Label()})
	}

	seenMonths := make(map[string]struct{})
	seenCategories := make(map[string]struct{})
	for _, record := range records {
		if _, ok := seenMonths[record.Month]; !ok && record.Month != "" {
			seenMonths[record.Month] = struct{}{}
			options.Months = append(options.Months, record.Month)
		}
		if _, ok := seenCategories[record.ProductCategory]; !ok && record.ProductCategory != "" {
			seenCategories[record.ProductCategory] = struct{}{}
			options.Categories = append(options.Categories, record.ProductCategory)
		}
	}

	return options
}
