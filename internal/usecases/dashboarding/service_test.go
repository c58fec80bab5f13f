package dashboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/tabular"
	"github.com/vfg2006/sales-prediction-dashboard/internal/config"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/loading/mocks"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
	"go.uber.org/mock/gomock"
)

const (
	predictionPath       = "Data_Prediction.csv"
	beforePredictionPath = "Data_Before_Prediction.csv"
)

func floatPtr(f float64) *float64 {
	return &f
}

func datasetConfig() config.Dataset {
	return config.Dataset{
		Source:               config.DatasetSourceFile,
		PredictionPath:       predictionPath,
		BeforePredictionPath: beforePredictionPath,
		TopProductsLimit:     10,
	}
}

func padXDatasets() (*domain.Dataset, *domain.Dataset) {
	prediction := &domain.Dataset{
		Path:   predictionPath,
		Origin: domain.DataOriginPredicted,
		Records: []domain.SalesRecord{{
			Month:           "2024-01",
			ProductCategory: "Brake",
			PartName:        "Pad-X",
			PredictedSales:  floatPtr(150),
		}},
		Stats: domain.LoadStats{RowsRead: 1, RowsLoaded: 1},
	}
	beforePrediction := &domain.Dataset{
		Path:   beforePredictionPath,
		Origin: domain.DataOriginPreActual,
		Records: []domain.SalesRecord{{
			Month:           "2024-01",
			ProductCategory: "Brake",
			PartName:        "Pad-X",
			ActualSales:     floatPtr(100),
		}},
		Stats: domain.LoadStats{RowsRead: 2, RowsLoaded: 1, RowsDroppedInvalidDate: 1},
	}
	return prediction, beforePrediction
}

func expectDatasets(loader *mocks.MockDatasetLoader) {
	prediction, beforePrediction := padXDatasets()
	loader.EXPECT().Load(gomock.Any(), predictionPath, true).Return(prediction, nil)
	loader.EXPECT().Load(gomock.Any(), beforePredictionPath, false).Return(beforePrediction, nil)
}

func TestDashboardService_GetDashboard(t *testing.T) {
	tests := []struct {
		name     string
		query    *domain.DashboardQuery
		validate func(t *testing.T, resp *domain.DashboardResponse)
	}{
		{
			name:  "comparação soma a coluna combinada por mês",
			query: &domain.DashboardQuery{View: domain.DatasetViewComparison},
			validate: func(t *testing.T, resp *domain.DashboardResponse) {
				assert.Equal(t, domain.ValueColumnCombined, resp.ValueColumn)
				assert.Equal(t, 2, resp.RowCount)
				require.Len(t, resp.Aggregates.MonthlyTrend, 2)
				assert.Equal(t, 250.0, resp.Aggregates.MonthlyTrend[0].Value+resp.Aggregates.MonthlyTrend[1].Value)
				require.Len(t, resp.Aggregates.Comparison, 2)
			},
		},
		{
			name:  "visão de predição usa a coluna prevista",
			query: &domain.DashboardQuery{View: domain.DatasetViewPrediction},
			validate: func(t *testing.T, resp *domain.DashboardResponse) {
				assert.Equal(t, domain.ValueColumnPredicted, resp.ValueColumn)
				assert.Equal(t, "Data Prediksi", resp.ViewLabel)
				assert.Nil(t, resp.Aggregates.Comparison)
				assert.Equal(t, 1, resp.LoadStats[string(domain.DataOriginPreActual)].RowsDroppedInvalidDate)
			},
		},
		{
			name:  "query nula cai na visão de predição",
			query: nil,
			validate: func(t *testing.T, resp *domain.DashboardResponse) {
				assert.Equal(t, domain.DatasetViewPrediction, resp.View)
				assert.NotEmpty(t, resp.RenderID)
			},
		},
		{
			name: "filtro com sentinela mantém todas as linhas",
			query: &domain.DashboardQuery{
				View:      domain.DatasetViewPrePrediction,
				Selection: domain.Selection{Month: domain.AllSentinel, Category: "Brake"},
			},
			validate: func(t *testing.T, resp *domain.DashboardResponse) {
				assert.Equal(t, 2, resp.RowCount)
				require.Len(t, resp.Aggregates.TopProducts, 2)
				assert.Equal(t, 100.0, resp.Aggregates.TopProducts[0].Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := mocks.NewMockDatasetLoader(ctrl)
			expectDatasets(loader)

			service := NewDashboardService(loader, datasetConfig(), metrics.NewRegistry())

			resp, err := service.GetDashboard(context.Background(), tt.query)
			require.NoError(t, err)
			tt.validate(t, resp)
		})
	}
}

func TestDashboardService_GetDashboard_NoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockDatasetLoader(ctrl)
	expectDatasets(loader)

	service := NewDashboardService(loader, datasetConfig(), nil)

	_, err := service.GetDashboard(context.Background(), &domain.DashboardQuery{
		View:      domain.DatasetViewComparison,
		Selection: domain.Selection{Month: "2030-01"},
	})
	assert.ErrorIs(t, err, filtering.ErrNoDataForFilter)
}

func TestDashboardService_GetDashboard_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockDatasetLoader(ctrl)
	loadErr := errors.New("arquivo ausente")
	loader.EXPECT().Load(gomock.Any(), predictionPath, true).Return(nil, loadErr)

	service := NewDashboardService(loader, datasetConfig(), nil)

	_, err := service.GetDashboard(context.Background(), &domain.DashboardQuery{})
	assert.ErrorIs(t, err, loadErr)
}

func TestDashboardService_GetFilterOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockDatasetLoader(ctrl)
	expectDatasets(loader)

	service := NewDashboardService(loader, datasetConfig(), nil)

	options, err := service.GetFilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{domain.AllSentinel, "2024-01"}, options.Months)
	assert.Equal(t, []string{domain.AllSentinel, "Brake"}, options.Categories)
	assert.Len(t, options.Views, 3)
}

func TestDashboardService_Warmup(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockDatasetLoader(ctrl)
	expectDatasets(loader)

	service := NewDashboardService(loader, datasetConfig(), nil)

	assert.NoError(t, service.Warmup(context.Background()))
}

// tableReader devolve a tabela cadastrada para cada local
type tableReader map[string]*tabular.Table

func (r tableReader) ReadTable(_ context.Context, location string) (*tabular.Table, error) {
	return r[location], nil
}

func TestDashboardService_InvalidDatesNeverAggregated(t *testing.T) {
	reader := tableReader{
		predictionPath: {
			Header: []string{"Bulan", "Kategori Produk", "Suku Cadang", "Prediksi Total Penjualan"},
			Rows: [][]string{
				{"2024-01", "Brake", "Pad-X", "150"},
				{"not-a-date", "Brake", "Pad-X", "999"},
			},
		},
		beforePredictionPath: {
			Header: []string{"Bulan", "Kategori Produk", "Suku Cadang", "Total Penjualan"},
			Rows: [][]string{
				{"2024-01-10", "Brake", "Pad-X", "100"},
			},
		},
	}

	loader := loading.NewCachedLoader(loading.NewLoader(reader, nil), nil)
	service := NewDashboardService(loader, datasetConfig(), nil)

	resp, err := service.GetDashboard(context.Background(), &domain.DashboardQuery{View: domain.DatasetViewComparison})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.RowCount)
	assert.Equal(t, 1, resp.LoadStats[string(domain.DataOriginPredicted)].RowsDroppedInvalidDate)

	total := 0.0
	for _, row := range resp.Aggregates.MonthlyTrend {
		assert.Equal(t, "2024-01", row.Key)
		total += row.Value
	}
	assert.Equal(t, 250.0, total)
}
