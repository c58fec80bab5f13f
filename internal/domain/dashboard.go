package domain

import "fmt"

// AllSentinel é o valor do seletor que significa "sem filtro"
const AllSentinel = "Semua"

// ValueColumn é a coluna numérica usada nas agregações
type ValueColumn string

const (
	ValueColumnPredicted ValueColumn = ColumnPredictedSales
	ValueColumnActual    ValueColumn = ColumnTotalSales
	ValueColumnCombined  ValueColumn = ColumnCombinedSales
)

// DatasetView é a opção do seletor de três vias do sidebar
type DatasetView string

const (
	DatasetViewPrediction    DatasetView = "prediction"
	DatasetViewPrePrediction DatasetView = "pre-prediction"
	DatasetViewComparison    DatasetView = "comparison"
)

// DatasetViews na ordem em que aparecem no sidebar
var DatasetViews = []DatasetView{
	DatasetViewPrediction,
	DatasetViewPrePrediction,
	DatasetViewComparison,
}

// ParseDatasetView converte o parâmetro da requisição. Vazio resulta na visão de predição.
func ParseDatasetView(s string) (DatasetView, error) {
	if s == "" {
		return DatasetViewPrediction, nil
	}
	for _, v := range DatasetViews {
		if string(v) == s || v.Label() == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("visão de dataset inválida: %q", s)
}

// Label retorna o rótulo exibido no sidebar
func (v DatasetView) Label() string {
	switch v {
	case DatasetViewPrediction:
		return "Data Prediksi"
	case DatasetViewPrePrediction:
		return "Data Sebelum Prediksi"
	case DatasetViewComparison:
		return "Perbandingan"
	}
	return string(v)
}

// Heading retorna o subtítulo da análise para a visão
func (v DatasetView) Heading() string {
	switch v {
	case DatasetViewPrediction:
		return "📈 Analisis Data Prediksi"
	case DatasetViewPrePrediction:
		return "📉 Analisis Data Sebelum Prediksi"
	default:
		return "🔄 Perbandingan Data Prediksi dan Sebelum Prediksi"
	}
}

// ValueColumn resolve a coluna de valor usada pelas agregações 1-3
func (v DatasetView) ValueColumn() ValueColumn {
	switch v {
	case DatasetViewPrediction:
		return ValueColumnPredicted
	case DatasetViewPrePrediction:
		return ValueColumnActual
	default:
		return ValueColumnCombined
	}
}

// IsComparison indica se os gráficos devem separar as séries por origem
func (v DatasetView) IsComparison() bool {
	return v == DatasetViewComparison
}

// Selection são os filtros escolhidos no sidebar
type Selection struct {
	Month    string `json:"month"`
	Category string `json:"category"`
}

// DashboardQuery são os parâmetros de um ciclo de renderização
type DashboardQuery struct {
	View      DatasetView `json:"view"`
	Selection Selection   `json:"selection"`
}

// AggregateRow é uma linha de um group-by-sum
type AggregateRow struct {
	Key        string     `json:"key"`
	DataOrigin DataOrigin `json:"data_origin"`
	Value      float64    `json:"value"`
}

// Aggregates são as quatro visões agregadas do dashboard
type Aggregates struct {
	ValueColumn          ValueColumn    `json:"value_column"`
	MonthlyTrend         []AggregateRow `json:"monthly_trend"`
	CategoryDistribution []AggregateRow `json:"category_distribution"`
	TopProducts          []AggregateRow `json:"top_products"`
	Comparison           []AggregateRow `json:"comparison,omitempty"` // Apenas na visão de comparação
}

// DashboardResponse é o resultado de um ciclo de renderização
type DashboardResponse struct {
	RenderID    string               `json:"render_id"`
	View        DatasetView          `json:"view"`
	ViewLabel   string               `json:"view_label"`
	ValueColumn ValueColumn          `json:"value_column"`
	Selection   Selection            `json:"selection"`
	RowCount    int                  `json:"row_count"`
	Aggregates  *Aggregates          `json:"aggregates"`
	LoadStats   map[string]LoadStats `json:"load_stats"`
}

// FilterOptions alimenta os seletores do sidebar
type FilterOptions struct {
	Views      []ViewOption `json:"views"`
	Months     []string     `json:"months"`     // Inclui o sentinela na primeira posição
	Categories []string     `json:"categories"` // Inclui o sentinela na primeira posição
}

type ViewOption struct {
	Value DatasetView `json:"value"`
	Label string      `json:"label"`
}
