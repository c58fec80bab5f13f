package domain

import "time"

// LoadStats resume o que aconteceu com as linhas durante o carregamento
type LoadStats struct {
	RowsRead               int `json:"rows_read"`
	RowsLoaded             int `json:"rows_loaded"`
	RowsDroppedInvalidDate int `json:"rows_dropped_invalid_date"`
	ValuesCoercedToNull    int `json:"values_coerced_to_null"`
}

// Dataset é o resultado do carregamento de um arquivo de vendas
type Dataset struct {
	Path     string        `json:"path"`
	Origin   DataOrigin    `json:"origin"`
	Records  []SalesRecord `json:"-"`
	Stats    LoadStats     `json:"stats"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// OriginFor retorna a origem correspondente ao tipo de dataset
func OriginFor(isPrediction bool) DataOrigin {
	if isPrediction {
		return DataOriginPredicted
	}
	return DataOriginPreActual
}
