package handler

import (
	"net/http"

	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/chart"
	"github.com/vfg2006/sales-prediction-dashboard/internal/api/handler/router"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Dashboard(service dashboarding.Dashboarder, renderer chart.Renderer) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: DashboardPage(service),
		},
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
		{
			Path:    "/v1/dashboard/options",
			Method:  http.MethodGet,
			Handler: GetFilterOptions(service),
		},
		{
			Path:    "/v1/charts/:chart",
			Method:  http.MethodGet,
			Handler: GetChart(service, renderer),
		},
	}
}

func Static(logoPath string) []router.Route {
	return []router.Route{
		{
			Path:    "/static/logo",
			Method:  http.MethodGet,
			Handler: ServeLogo(logoPath),
		},
	}
}

func Metrics(reg *metrics.Registry) []router.Route {
	if reg == nil {
		return nil
	}

	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: reg.Handler(),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
