package chart

import (
	"github.com/shopspring/decimal"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
)

// Tema escuro no estilo plotly_dark
var (
	backgroundColor = drawing.ColorFromHex("111111")
	fontColor       = drawing.ColorFromHex("F2F5FA")
	gridColor       = drawing.ColorFromHex("506784")
	primaryColor    = drawing.ColorFromHex("636EFA")
	secondaryColor  = drawing.ColorFromHex("EF553B")
)

func axisStyle() gochart.Style {
	return gochart.Style{
		FontColor:   fontColor,
		StrokeColor: gridColor,
	}
}

func legendStyle() gochart.Style {
	return gochart.Style{
		FillColor:   backgroundColor,
		FontColor:   fontColor,
		StrokeColor: gridColor,
	}
}

func originColor(origin domain.DataOrigin) drawing.Color {
	if origin == domain.DataOriginPreActual {
		return secondaryColor
	}
	return primaryColor
}

type seriesGroup struct {
	name  string
	color drawing.Color
	rows  []domain.AggregateRow
}

// seriesGroups separa as linhas por origem ou, fora da comparação, soma tudo
// numa série única
func seriesGroups(rows []domain.AggregateRow, byOrigin bool) []seriesGroup {
	if !byOrigin {
		return []seriesGroup{{
			name:  "Total",
			color: primaryColor,
			rows:  sumByKey(rows),
		}}
	}

	groups := make([]seriesGroup, 0, 2)
	index := make(map[domain.DataOrigin]int)
	for _, row := range rows {
		i, ok := index[row.DataOrigin]
		if !ok {
			i = len(groups)
			index[row.DataOrigin] = i
			groups = append(groups, seriesGroup{
				name:  string(row.DataOrigin),
				color: originColor(row.DataOrigin),
			})
		}
		groups[i].rows = append(groups[i].rows, row)
	}

	return groups
}

// sumByKey soma as origens de cada chave mantendo a ordem de aparição
func sumByKey(rows []domain.AggregateRow) []domain.AggregateRow {
	sums := make(map[string]decimal.Decimal)
	keys := uniqueKeys(rows)
	for _, row := range rows {
		sums[row.Key] = sums[row.Key].Add(decimal.NewFromFloat(row.Value))
	}

	summed := make([]domain.AggregateRow, 0, len(keys))
	for _, key := range keys {
		value, _ := sums[key].Float64()
		summed = append(summed, domain.AggregateRow{Key: key, Value: value})
	}

	return summed
}

func uniqueKeys(rows []domain.AggregateRow) []string {
	seen := make(map[string]bool, len(rows))
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		if seen[row.Key] {
			continue
		}
		seen[row.Key] = true
		keys = append(keys, row.Key)
	}
	return keys
}
