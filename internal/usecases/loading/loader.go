package loading

//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/tabular"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/log"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/utils"
)

// DatasetLoader carrega um dataset de vendas a partir de um local
type DatasetLoader interface {
	// Load lê o dataset. isPrediction marca a coluna de valor como previsão.
	Load(ctx context.Context, location string, isPrediction bool) (*domain.Dataset, error)
}

// Loader converte tabelas brutas em registros de venda
type Loader struct {
	reader  tabular.Reader
	metrics *metrics.Registry
}

func NewLoader(reader tabular.Reader, reg *metrics.Registry) *Loader {
	return &Loader{
		reader:  reader,
		metrics: reg,
	}
}

// columnIndexes guarda a posição de cada coluna usada no carregamento
type columnIndexes struct {
	month    int
	category int
	part     int
	value    int
}

func (l *Loader) Load(ctx context.Context, location string, isPrediction bool) (*domain.Dataset, error) {
	logger := log.ForContext(ctx)
	startTime := time.Now()
	origin := domain.OriginFor(isPrediction)

	table, err := l.reader.ReadTable(ctx, location)
	if err != nil {
		return nil, NewDatasetError(ErrReadDataset, location, err)
	}

	columns, err := resolveColumns(table, isPrediction)
	if err != nil {
		return nil, NewDatasetError(ErrMissingColumn, location, err)
	}

	if columns.category < 0 || columns.part < 0 {
		logger.WithFields(log.Fields{
			"path_or_table":  location,
			"dataset_origin": origin,
		}).Warn("loading: colunas de categoria ou peça ausentes, valores ficarão vazios")
	}

	dataset := &domain.Dataset{
		Path:     location,
		Origin:   origin,
		Records:  make([]domain.SalesRecord, 0, len(table.Rows)),
		LoadedAt: time.Now(),
	}

	for _, row := range table.Rows {
		dataset.Stats.RowsRead++

		rawDate := table.Cell(row, columns.month)
		date, err := table.ParseDate(rawDate)
		if err != nil {
			// Linhas com data inválida são descartadas sem erro
			dataset.Stats.RowsDroppedInvalidDate++
			logger.WithFields(log.Fields{
				"path_or_table": location,
				"raw_date":      rawDate,
			}).Debug("loading: linha descartada por data inválida")
			continue
		}

		rawValue := table.Cell(row, columns.value)
		value := utils.ParseNumber(rawValue)
		if value == nil && rawValue != "" {
			dataset.Stats.ValuesCoercedToNull++
		}

		record := domain.SalesRecord{
			Month:           date.Format(domain.MonthLayout),
			Date:            date,
			ProductCategory: table.Cell(row, columns.category),
			PartName:        table.Cell(row, columns.part),
			DataOrigin:      origin,
		}
		if isPrediction {
			record.PredictedSales = value
		} else {
			record.ActualSales = value
		}

		dataset.Records = append(dataset.Records, record)
	}

	dataset.Stats.RowsLoaded = len(dataset.Records)
	l.observe(dataset, time.Since(startTime))

	logger.WithFields(log.Fields{
		"path_or_table":             location,
		"dataset_origin":            origin,
		"rows_read":                 dataset.Stats.RowsRead,
		"rows_loaded":               dataset.Stats.RowsLoaded,
		"rows_dropped_invalid_date": dataset.Stats.RowsDroppedInvalidDate,
		"values_coerced_to_null":    dataset.Stats.ValuesCoercedToNull,
	}).Info("loading: dataset carregado")

	return dataset, nil
}

// resolveColumns localiza as colunas obrigatórias. Datasets de predição podem
// trazer o valor como "Total Penjualan", que é renomeado para previsão.
func resolveColumns(table *tabular.Table, isPrediction bool) (columnIndexes, error) {
	columns := columnIndexes{
		month:    table.ColumnIndex(domain.ColumnMonth),
		category: table.ColumnIndex(domain.ColumnProductCategory),
		part:     table.ColumnIndex(domain.ColumnPartName),
		value:    table.ColumnIndex(domain.ColumnTotalSales),
	}

	if isPrediction {
		if idx := table.ColumnIndex(domain.ColumnPredictedSales); idx >= 0 {
			columns.value = idx
		}
	}

	if columns.month < 0 {
		return columns, errors.Errorf("coluna %q não encontrada", domain.ColumnMonth)
	}

	if columns.value < 0 {
		if isPrediction {
			return columns, errors.Errorf("coluna de valor não encontrada (esperado %q ou %q)",
				domain.ColumnPredictedSales, domain.ColumnTotalSales)
		}
		return columns, errors.Errorf("coluna %q não encontrada", domain.ColumnTotalSales)
	}

	return columns, nil
}

func (l *Loader) observe(dataset *domain.Dataset, elapsed time.Duration) {
	if l.metrics == nil {
		return
	}

	origin := string(dataset.Origin)
	l.metrics.DatasetLoadSec.Observe(elapsed.Seconds())
	l.metrics.DatasetRowsLoaded.WithLabelValues(origin).Add(float64(dataset.Stats.RowsLoaded))
	l.metrics.DatasetRowsDropped.WithLabelValues(origin, "invalid_date").Add(float64(dataset.Stats.RowsDroppedInvalidDate))
}
