// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "time"

// DataOrigin identifica de qual dataset a linha foi carregada
type DataOrigin string

const (
	DataOriginPredicted DataOrigin = "Prediksi"
	DataOriginPreActual DataOrigin = "Sebelum Prediksi"
)

// Colunas esperadas nos arquivos de entrada
const (
	ColumnMonth           = "Bulan"
	ColumnProductCategory = "Kategori Produk"
	ColumnPartName        = "Suku Cadang"
	ColumnTotalSales      = "Total Penjualan"
	ColumnPredictedSales  = "Prediksi Total Penjualan"
	ColumnCombinedSales   = "Total Penjualan Gabungan"
)

// MonthLayout é o formato da chave de mês (YYYY-MM)
const MonthLayout = "2006-01"

// SalesRecord representa uma linha de venda após o carregamento
type SalesRecord struct {
	Month           string     `json:"month"` // Formato YYYY-MM
	Date            time.Time  `json:"date"`
	ProductCategory string     `json:"product_category"`
	PartName        string     `json:"part_name"`
	ActualSales     *float64   `json:"actual_sales,omitempty"`
	PredictedSales  *float64   `json:"predicted_sales,omitempty"`
	DataOrigin      DataOrigin `json:"data_origin"`
	CombinedSales   float64    `json:"combined_sales"`
}

// Value retorna o valor da coluna escolhida. Valores ausentes contam como zero.
func (r SalesRecord) Value(column ValueColumn) float64 {
	switch column {
	case ValueColumnPredicted:
		if r.PredictedSales != nil {
			return *r.PredictedSales
		}
	case ValueColumnActual:
		if r.ActualSales != nil {
			return *r.ActualSales
		}
	case ValueColumnCombined:
		return r.CombinedSales
	}
	return 0
}

// Coalesce aplica a regra combine-first: previsto, depois real, depois zero
func (r SalesRecord) Coalesce() float64 {
	if r.PredictedSales != nil {
		return *r.PredictedSales
	}
	if r.ActualSales != nil {
		return *r.ActualSales
	}
	return 0
}
