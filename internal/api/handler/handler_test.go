package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/chart"
	"github.com/vfg2006/sales-prediction-dashboard/internal/api/handler/router"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/dashboarding/mocks"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

// fakeRenderer escreve um conteúdo fixo ou devolve o erro configurado
type fakeRenderer struct {
	err      error
	rendered []chart.Name
}

func (f *fakeRenderer) Render(w io.Writer, name chart.Name, _ *domain.DashboardResponse, _ chart.Format) error {
	if f.err != nil {
		return f.err
	}
	f.rendered = append(f.rendered, name)
	_, err := w.Write([]byte("imagem"))
	return err
}

type fakeCronJob struct {
	triggered int
}

func (f *fakeCronJob) TriggerManualSync() { f.triggered++ }

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_running": false}
}

func dashboardResponse(view domain.DatasetView) *domain.DashboardResponse {
	return &domain.DashboardResponse{
		RenderID:    "abc123",
		View:        view,
		ViewLabel:   view.Label(),
		ValueColumn: view.ValueColumn(),
		RowCount:    2,
		Aggregates:  &domain.Aggregates{ValueColumn: view.ValueColumn()},
	}
}

func filterOptions() *domain.FilterOptions {
	return &domain.FilterOptions{
		Views: []domain.ViewOption{
			{Value: domain.DatasetViewPrediction, Label: domain.DatasetViewPrediction.Label()},
			{Value: domain.DatasetViewPrePrediction, Label: domain.DatasetViewPrePrediction.Label()},
			{Value: domain.DatasetViewComparison, Label: domain.DatasetViewComparison.Label()},
		},
		Months:     []string{domain.AllSentinel, "2024-01"},
		Categories: []string{domain.AllSentinel, "Brake"},
	}
}

func newTestRouter(service *mocks.MockDashboarder, renderer chart.Renderer, cron CronJobServices) router.Router {
	return router.New(
		router.WithRoutes(Healthcheck()...),
		router.WithRoutes(Dashboard(service, renderer)...),
		router.WithRoutes(CronJobs(cron)...),
	)
}

func TestGetDashboard(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setup      func(service *mocks.MockDashboarder)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "sucesso com filtros",
			target: "/v1/dashboard?view=comparison&month=2024-01&category=Brake",
			setup: func(service *mocks.MockDashboarder) {
				service.EXPECT().GetDashboard(gomock.Any(), &domain.DashboardQuery{
					View:      domain.DatasetViewComparison,
					Selection: domain.Selection{Month: "2024-01", Category: "Brake"},
				}).Return(dashboardResponse(domain.DatasetViewComparison), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "rótulo da visão também é aceito",
			target: "/v1/dashboard?view=Perbandingan",
			setup: func(service *mocks.MockDashboarder) {
				service.EXPECT().GetDashboard(gomock.Any(), &domain.DashboardQuery{
					View: domain.DatasetViewComparison,
				}).Return(dashboardResponse(domain.DatasetViewComparison), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "visão inválida",
			target:     "/v1/dashboard?view=outra",
			setup:      func(service *mocks.MockDashboarder) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:   "filtro sem dados",
			target: "/v1/dashboard?month=2030-01",
			setup: func(service *mocks.MockDashboarder) {
				service.EXPECT().GetDashboard(gomock.Any(), gomock.Any()).Return(nil, filtering.ErrNoDataForFilter)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrNoDataForFilter,
		},
		{
			name:   "falha ao carregar datasets",
			target: "/v1/dashboard",
			setup: func(service *mocks.MockDashboarder) {
				service.EXPECT().GetDashboard(gomock.Any(), gomock.Any()).Return(nil, errors.New("arquivo ausente"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.ErrDatasetLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockDashboarder(ctrl)
			tt.setup(service)

			rec := httptest.NewRecorder()
			newTestRouter(service, &fakeRenderer{}, CronJobServices{}).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var body apiErrors.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
				return
			}

			var resp domain.DashboardResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "abc123", resp.RenderID)
		})
	}
}

func TestGetFilterOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockDashboarder(ctrl)
	service.EXPECT().GetFilterOptions(gomock.Any()).Return(filterOptions(), nil)

	rec := httptest.NewRecorder()
	newTestRouter(service, &fakeRenderer{}, CronJobServices{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard/options", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var options domain.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, []string{domain.AllSentinel, "2024-01"}, options.Months)
}

func TestGetChart(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		renderErr   error
		expectCall  bool
		serviceErr  error
		wantStatus  int
		wantContent string
	}{
		{
			name:        "png por padrão",
			target:      "/v1/charts/monthly-trend",
			expectCall:  true,
			wantStatus:  http.StatusOK,
			wantContent: "image/png",
		},
		{
			name:        "svg sob demanda",
			target:      "/v1/charts/top-products?format=svg",
			expectCall:  true,
			wantStatus:  http.StatusOK,
			wantContent: "image/svg+xml",
		},
		{
			name:       "formato inválido",
			target:     "/v1/charts/top-products?format=gif",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "comparação fora da visão de comparação",
			target:     "/v1/charts/comparison",
			expectCall: true,
			renderErr:  chart.ErrChartUnavailable,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "filtro sem dados",
			target:     "/v1/charts/monthly-trend?month=2030-01",
			expectCall: true,
			serviceErr: filtering.ErrNoDataForFilter,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "falha de renderização",
			target:     "/v1/charts/monthly-trend",
			expectCall: true,
			renderErr:  errors.New("sem fonte"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockDashboarder(ctrl)
			if tt.expectCall {
				call := service.EXPECT().GetDashboard(gomock.Any(), gomock.Any())
				if tt.serviceErr != nil {
					call.Return(nil, tt.serviceErr)
				} else {
					call.Return(dashboardResponse(domain.DatasetViewPrediction), nil)
				}
			}

			rec := httptest.NewRecorder()
			newTestRouter(service, &fakeRenderer{err: tt.renderErr}, CronJobServices{}).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantContent != "" {
				assert.Equal(t, tt.wantContent, rec.Header().Get("Content-Type"))
				assert.Equal(t, "imagem", rec.Body.String())
			}
		})
	}
}

func TestDashboardPage(t *testing.T) {
	t.Run("comparação lista os quatro gráficos", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockDashboarder(ctrl)
		service.EXPECT().GetFilterOptions(gomock.Any()).Return(filterOptions(), nil)
		service.EXPECT().GetDashboard(gomock.Any(), gomock.Any()).Return(dashboardResponse(domain.DatasetViewComparison), nil)

		rec := httptest.NewRecorder()
		newTestRouter(service, &fakeRenderer{}, CronJobServices{}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?view=comparison&month=2024-01", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Dataset yang dipilih: Perbandingan")
		assert.Contains(t, body, "/v1/charts/comparison?month=2024-01&amp;view=comparison")
		assert.Contains(t, body, "Perbandingan Total Penjualan Berdasarkan Bulan")
		assert.Contains(t, body, `<option value="2024-01" selected>`)
	})

	t.Run("filtro sem dados mostra a mensagem", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockDashboarder(ctrl)
		service.EXPECT().GetFilterOptions(gomock.Any()).Return(filterOptions(), nil)
		service.EXPECT().GetDashboard(gomock.Any(), gomock.Any()).Return(nil, filtering.ErrNoDataForFilter)

		rec := httptest.NewRecorder()
		newTestRouter(service, &fakeRenderer{}, CronJobServices{}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?category=Nada", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), noDataMessage)
		assert.NotContains(t, rec.Body.String(), "/v1/charts/")
	})

	t.Run("visão inválida", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockDashboarder(ctrl)

		rec := httptest.NewRecorder()
		newTestRouter(service, &fakeRenderer{}, CronJobServices{}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?view=outra", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCronJobs(t *testing.T) {
	job := &fakeCronJob{}
	services := CronJobServices{DatasetAuditService: job}
	ctrl := gomock.NewController(t)
	rt := newTestRouter(mocks.NewMockDashboarder(ctrl), &fakeRenderer{}, services)

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cron/dataset-audit/run", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, job.triggered)

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cron/desconhecida/run", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, status, CronJobTypeDatasetAudit)
}

func TestServeLogo(t *testing.T) {
	logoPath := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logoPath, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	rt := router.New(router.WithRoutes(Static(logoPath)...))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/logo", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestHealthcheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthcheckHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
