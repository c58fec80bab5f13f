// Package chart desenha os gráficos do dashboard com go-chart
package chart

import (
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/utils"
)

// Name identifica um dos gráficos do dashboard
type Name string

const (
	MonthlyTrend         Name = "monthly-trend"
	CategoryDistribution Name = "category-distribution"
	TopProducts          Name = "top-products"
	Comparison           Name = "comparison"
)

// Names na ordem em que aparecem na página
var Names = []Name{MonthlyTrend, CategoryDistribution, TopProducts, Comparison}

// Format é o formato de saída da imagem
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

var (
	ErrUnknownChart      = errors.New("gráfico desconhecido")
	ErrUnsupportedFormat = errors.New("formato de gráfico não suportado")
	// ErrChartUnavailable indica um gráfico que não existe para a visão escolhida
	ErrChartUnavailable = errors.New("gráfico indisponível para a visão selecionada")
)

// ParseFormat converte o parâmetro format. Vazio resulta em PNG.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%q", s)
}

// ContentType do formato para o cabeçalho HTTP
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatSVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Available lista os gráficos exibidos para a visão
func Available(view domain.DatasetView) []Name {
	if view.IsComparison() {
		return Names
	}
	return Names[:3]
}

// Title retorna o título do gráfico em indonésio
func (n Name) Title() string {
	switch n {
	case MonthlyTrend:
		return "Tren Penjualan Bulanan"
	case CategoryDistribution:
		return "Distribusi Penjualan Berdasarkan Kategori Produk"
	case TopProducts:
		return "10 Produk dengan Penjualan Tertinggi"
	case Comparison:
		return "Perbandingan Total Penjualan Sebelum dan Setelah Prediksi"
	}
	return string(n)
}

// Heading retorna o cabeçalho da seção do gráfico na página
func (n Name) Heading() string {
	switch n {
	case MonthlyTrend:
		return "📅 Tren Penjualan Bulanan"
	case CategoryDistribution:
		return "📦 Distribusi Penjualan Berdasarkan Kategori Produk"
	case TopProducts:
		return "🏆 Produk dengan Penjualan Tertinggi"
	case Comparison:
		return "📊 Perbandingan Total Penjualan Berdasarkan Bulan"
	}
	return string(n)
}

// Renderer desenha um gráfico a partir do resultado de uma renderização
type Renderer interface {
	Render(w io.Writer, name Name, dashboard *domain.DashboardResponse, format Format) error
}

type GoChartRenderer struct {
	width   int
	height  int
	metrics *metrics.Registry
}

func NewRenderer(width, height int, reg *metrics.Registry) *GoChartRenderer {
	return &GoChartRenderer{
		width:   width,
		height:  height,
		metrics: reg,
	}
}

func (r *GoChartRenderer) Render(w io.Writer, name Name, dashboard *domain.DashboardResponse, format Format) error {
	err := r.render(w, name, dashboard, format)
	if err == nil && r.metrics != nil {
		r.metrics.ChartsRendered.WithLabelValues(string(name), string(format)).Inc()
	}
	return err
}

func (r *GoChartRenderer) render(w io.Writer, name Name, dashboard *domain.DashboardResponse, format Format) error {
	if dashboard == nil || dashboard.Aggregates == nil {
		return errors.New("chart: dashboard sem agregações")
	}

	aggregates := dashboard.Aggregates
	byOrigin := dashboard.View.IsComparison()
	yLabel := string(aggregates.ValueColumn) + " (dalam unit)"

	switch name {
	case MonthlyTrend:
		return r.renderLine(w, name, aggregates.MonthlyTrend, byOrigin, yLabel, format)
	case CategoryDistribution:
		return r.renderBars(w, name, aggregates.CategoryDistribution, byOrigin, format)
	case TopProducts:
		return r.renderBars(w, name, aggregates.TopProducts, byOrigin, format)
	case Comparison:
		if !byOrigin || aggregates.Comparison == nil {
			return ErrChartUnavailable
		}
		return r.renderBars(w, name, aggregates.Comparison, true, format)
	}

	return errors.Wrapf(ErrUnknownChart, "%q", name)
}

func (r *GoChartRenderer) renderLine(w io.Writer, name Name, rows []domain.AggregateRow, byOrigin bool, yLabel string, format Format) error {
	keys := uniqueKeys(rows)
	position := make(map[string]float64, len(keys))
	for i, key := range keys {
		position[key] = float64(i)
	}
	xRange := monthRange(len(keys))

	series := make([]gochart.Series, 0, 2)
	values := make([]float64, 0, len(rows))
	for _, group := range seriesGroups(rows, byOrigin) {
		s := gochart.ContinuousSeries{
			Name: group.name,
			Style: gochart.Style{
				StrokeColor: group.color,
				StrokeWidth: 2,
				DotColor:    group.color,
				DotWidth:    4,
			},
		}
		for _, row := range group.rows {
			s.XValues = append(s.XValues, position[row.Key])
			s.YValues = append(s.YValues, row.Value)
		}
		values = append(values, s.YValues...)
		series = append(series, s)
	}

	ch := gochart.Chart{
		Title:      name.Title(),
		TitleStyle: gochart.Style{FontColor: fontColor},
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{
			FillColor: backgroundColor,
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: gochart.Style{FillColor: backgroundColor},
		XAxis: gochart.XAxis{
			Name:      string(domain.ColumnMonth),
			NameStyle: axisStyle(),
			Style:     axisStyle(),
			Ticks:     monthTicks(keys, xRange),
			Range:     xRange,
		},
		YAxis: gochart.YAxis{
			Name:           yLabel,
			NameStyle:      axisStyle(),
			Style:          axisStyle(),
			Range:          valueRange(values),
			ValueFormatter: formatValue,
		},
		Series: series,
	}

	if byOrigin {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch, legendStyle())}
	}

	return errors.Wrapf(ch.Render(format.provider(), w), "chart: falha ao renderizar %s", name)
}

func (r *GoChartRenderer) renderBars(w io.Writer, name Name, rows []domain.AggregateRow, byOrigin bool, format Format) error {
	bars := make([]gochart.Value, 0, len(rows))
	if byOrigin {
		for _, row := range rows {
			color := originColor(row.DataOrigin)
			bars = append(bars, gochart.Value{
				Label: row.Key + " (" + string(row.DataOrigin) + ")",
				Value: row.Value,
				Style: gochart.Style{FillColor: color, StrokeColor: color},
			})
		}
	} else {
		for _, row := range sumByKey(rows) {
			bars = append(bars, gochart.Value{
				Label: row.Key,
				Value: row.Value,
				Style: gochart.Style{FillColor: primaryColor, StrokeColor: primaryColor},
			})
		}
	}

	if len(bars) == 0 {
		return errors.Wrapf(ErrChartUnavailable, "%s sem barras", name)
	}

	values := make([]float64, 0, len(bars))
	for _, bar := range bars {
		values = append(values, bar.Value)
	}

	barWidth, barSpacing := barGeometry(r.width, len(bars))

	ch := gochart.BarChart{
		Title:      name.Title(),
		TitleStyle: gochart.Style{FontColor: fontColor},
		Width:      r.width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{
			FillColor: backgroundColor,
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: gochart.Style{FillColor: backgroundColor},
		XAxis: gochart.Style{
			FontColor:           fontColor,
			StrokeColor:         gridColor,
			TextRotationDegrees: 45,
		},
		YAxis: gochart.YAxis{
			Style:          axisStyle(),
			Range:          valueRange(values),
			ValueFormatter: formatValue,
		},
		Bars:         bars,
		UseBaseValue: true,
		BaseValue:    0,
	}

	return errors.Wrapf(ch.Render(format.provider(), w), "chart: falha ao renderizar %s", name)
}

// monthRange reserva meia posição antes do primeiro e depois do último mês
func monthRange(count int) *gochart.ContinuousRange {
	return &gochart.ContinuousRange{Min: -0.5, Max: float64(count) - 0.5}
}

// monthTicks rotula cada mês e marca as bordas do eixo sem rótulo. O go-chart
// troca o intervalo do eixo pelo menor e maior tick, então com um único mês só
// as bordas evitam um eixo X de largura zero.
func monthTicks(keys []string, xRange *gochart.ContinuousRange) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, len(keys)+2)
	ticks = append(ticks, gochart.Tick{Value: xRange.Min})
	for i, key := range keys {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: key})
	}
	return append(ticks, gochart.Tick{Value: xRange.Max})
}

// barGeometry distribui as barras na largura disponível
func barGeometry(width, count int) (barWidth, spacing int) {
	available := width - 160
	if available < count {
		available = count
	}

	slot := available / count
	spacing = slot / 4
	barWidth = slot - spacing
	if barWidth < 1 {
		barWidth = 1
	}

	return barWidth, spacing
}

// valueRange fixa o eixo Y em [min(0, menor), max(maior, 1)]
func valueRange(values []float64) *gochart.ContinuousRange {
	minValue, maxValue := 0.0, 1.0
	for _, v := range values {
		minValue = math.Min(minValue, v)
		maxValue = math.Max(maxValue, v)
	}

	return &gochart.ContinuousRange{Min: minValue, Max: maxValue * 1.05}
}

func formatValue(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(utils.RoundWithTwoDecimalPlace(f), 'f', -1, 64)
	}
	return ""
}
