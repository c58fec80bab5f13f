package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/apiErrors"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// parseDashboardQuery lê view, month e category da query string
func parseDashboardQuery(r *http.Request) (*domain.DashboardQuery, error) {
	params := r.URL.Query()

	view, err := domain.ParseDatasetView(params.Get("view"))
	if err != nil {
		return nil, err
	}

	return &domain.DashboardQuery{
		View: view,
		Selection: domain.Selection{
			Month:    params.Get("month"),
			Category: params.Get("category"),
		},
	}, nil
}

// writeDashboardError traduz os erros do ciclo de renderização para a API
func writeDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, filtering.ErrNoDataForFilter) {
		apiErrors.WriteError(w, apiErrors.ErrNoDataForFilter, noDataMessage, nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("dashboard: erro ao montar o dashboard")
	apiErrors.WriteError(w, apiErrors.ErrDatasetLoad, "Erro ao carregar os dados de vendas", nil)
}

// GetDashboard retorna as agregações do dashboard para a visão e os filtros informados
func GetDashboard(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		query, err := parseDashboardQuery(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		resp, err := service.GetDashboard(r.Context(), query)
		if err != nil {
			writeDashboardError(w, r, err)
			return
		}

		logger.WithFields(log.Fields{
			"render_id": resp.RenderID,
			"view":      resp.View,
			"rows":      resp.RowCount,
		}).Info("dashboard: agregações enviadas")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.WithError(err).Error("dashboard: erro ao enviar resposta")
		}
	}
}

// GetFilterOptions retorna as opções dos seletores do sidebar
func GetFilterOptions(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := service.GetFilterOptions(r.Context())
		if err != nil {
			writeDashboardError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(options); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("dashboard: erro ao enviar opções")
		}
	}
}
