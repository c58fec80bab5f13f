package dashboarding

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-prediction-dashboard/internal/config"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/aggregating"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/merging"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/log"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/utils"
)

type Dashboarder interface {
	GetDashboard(ctx context.Context, query *domain.DashboardQuery) (*domain.DashboardResponse, error)
	GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error)
	Warmup(ctx context.Context) error
}

type DashboardService struct {
	loader               loading.DatasetLoader
	predictionPath       string
	beforePredictionPath string
	topProductsLimit     int
	metrics              *metrics.Registry
}

func NewDashboardService(loader loading.DatasetLoader, cfg config.Dataset, reg *metrics.Registry) Dashboarder {
	limit := cfg.TopProductsLimit
	if limit <= 0 {
		limit = aggregating.DefaultTopProductsLimit
	}

	return &DashboardService{
		loader:               loader,
		predictionPath:       cfg.PredictionPath,
		beforePredictionPath: cfg.BeforePredictionPath,
		topProductsLimit:     limit,
		metrics:              reg,
	}
}

// loadDatasets carrega predição e pré-predição, nessa ordem
func (s *DashboardService) loadDatasets(ctx context.Context) ([]*domain.Dataset, error) {
	prediction, err := s.loader.Load(ctx, s.predictionPath, true)
	if err != nil {
		return nil, errors.Wrap(err, "falha ao carregar dataset de predição")
	}

	beforePrediction, err := s.loader.Load(ctx, s.beforePredictionPath, false)
	if err != nil {
		return nil, errors.Wrap(err, "falha ao carregar dataset anterior à predição")
	}

	return []*domain.Dataset{prediction, beforePrediction}, nil
}

func (s *DashboardService) GetDashboard(ctx context.Context, query *domain.DashboardQuery) (*domain.DashboardResponse, error) {
	startTime := time.Now()

	if query == nil {
		query = &domain.DashboardQuery{View: domain.DatasetViewPrediction}
	}
	if query.View == "" {
		query.View = domain.DatasetViewPrediction
	}

	renderID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao gerar render id")
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"render_id": renderID,
		"view":      query.View,
	})

	datasets, err := s.loadDatasets(ctx)
	if err != nil {
		return nil, err
	}

	records := merging.Merge(datasets...)

	filtered, err := filtering.Apply(records, query.Selection)
	if err != nil {
		if errors.Is(err, filtering.ErrNoDataForFilter) && s.metrics != nil {
			s.metrics.EmptyResults.Inc()
		}
		logger.WithFields(log.Fields{
			"month":    query.Selection.Month,
			"category": query.Selection.Category,
		}).Info("dashboarding: nenhum registro para o filtro selecionado")
		return nil, err
	}

	aggregates := aggregating.Aggregate(filtered, query.View, s.topProductsLimit)

	stats := make(map[string]domain.LoadStats, len(datasets))
	for _, dataset := range datasets {
		stats[string(dataset.Origin)] = dataset.Stats
	}

	if s.metrics != nil {
		s.metrics.Renders.WithLabelValues(string(query.View)).Inc()
	}

	logger.WithFields(log.Fields{
		"rows_filtered": len(filtered),
		"duration_ms":   time.Since(startTime).Milliseconds(),
	}).Debug("dashboarding: renderização concluída")

	return &domain.DashboardResponse{
		RenderID:    renderID,
		View:        query.View,
		ViewLabel:   query.View.Label(),
		ValueColumn: aggregates.ValueColumn,
		Selection:   query.Selection,
		RowCount:    len(filtered),
		Aggregates:  aggregates,
		LoadStats:   stats,
	}, nil
}

func (s *DashboardService) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	datasets, err := s.loadDatasets(ctx)
	if err != nil {
		return nil, err
	}

	return filtering.Options(merging.Merge(datasets...)), nil
}

// Warmup carrega os dois datasets uma vez para que falhas apareçam na inicialização
func (s *DashboardService) Warmup(ctx context.Context) error {
	datasets, err := s.loadDatasets(ctx)
	if err != nil {
		return err
	}

	for _, dataset := range datasets {
		log.ForContext(ctx).WithFields(log.Fields{
			"path_or_table":  dataset.Path,
			"dataset_origin": dataset.Origin,
			"rows_loaded":    dataset.Stats.RowsLoaded,
		}).Info("dashboarding: dataset pronto")
	}

	return nil
}
