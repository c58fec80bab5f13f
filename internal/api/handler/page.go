package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/chart"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/filtering"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/log"
)

const noDataMessage = "❌ Tidak ada data untuk filter yang dipilih."

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

type viewChoice struct {
	Value   domain.DatasetView
	Label   string
	Checked bool
}

type optionChoice struct {
	Value    string
	Selected bool
}

type chartSection struct {
	Heading string
	Title   string
	URL     string
}

type pageData struct {
	Views      []viewChoice
	Months     []optionChoice
	Categories []optionChoice
	ViewLabel  string
	Heading    string
	Error      string
	Charts     []chartSection
}

func optionChoices(values []string, selected string) []optionChoice {
	if selected == "" {
		selected = domain.AllSentinel
	}

	choices := make([]optionChoice, 0, len(values))
	for _, value := range values {
		choices = append(choices, optionChoice{Value: value, Selected: value == selected})
	}
	return choices
}

// chartURL monta a URL da imagem mantendo a visão e os filtros da página
func chartURL(name chart.Name, query *domain.DashboardQuery) string {
	params := url.Values{}
	params.Set("view", string(query.View))
	if query.Selection.Month != "" {
		params.Set("month", query.Selection.Month)
	}
	if query.Selection.Category != "" {
		params.Set("category", query.Selection.Category)
	}
	return "/v1/charts/" + string(name) + "?" + params.Encode()
}

// DashboardPage renderiza a página HTML com o sidebar e os gráficos
func DashboardPage(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		query, err := parseDashboardQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		options, err := service.GetFilterOptions(r.Context())
		if err != nil {
			logger.WithError(err).Error("page: erro ao carregar opções dos filtros")
			http.Error(w, "Erro ao carregar os dados de vendas", http.StatusInternalServerError)
			return
		}

		data := pageData{
			Months:     optionChoices(options.Months, query.Selection.Month),
			Categories: optionChoices(options.Categories, query.Selection.Category),
			ViewLabel:  query.View.Label(),
			Heading:    query.View.Heading(),
		}
		for _, view := range options.Views {
			data.Views = append(data.Views, viewChoice{
				Value:   view.Value,
				Label:   view.Label,
				Checked: view.Value == query.View,
			})
		}

		status := http.StatusOK
		resp, err := service.GetDashboard(r.Context(), query)
		switch {
		case errors.Is(err, filtering.ErrNoDataForFilter):
			data.Error = noDataMessage
		case err != nil:
			logger.WithError(err).Error("page: erro ao montar o dashboard")
			data.Error = "Erro ao carregar os dados de vendas"
			status = http.StatusInternalServerError
		default:
			logger.WithFields(log.Fields{
				"render_id": resp.RenderID,
				"view":      resp.View,
			}).Debug("page: renderizando dashboard")

			for _, name := range chart.Available(query.View) {
				data.Charts = append(data.Charts, chartSection{
					Heading: name.Heading(),
					Title:   name.Title(),
					URL:     chartURL(name, query),
				})
			}
		}

		var buf bytes.Buffer
		if err := dashboardTemplate.Execute(&buf, data); err != nil {
			logger.WithError(err).Error("page: erro ao executar template")
			http.Error(w, "Erro ao renderizar página", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if _, err := w.Write(buf.Bytes()); err != nil {
			logger.WithError(err).Warn("page: erro ao enviar página")
		}
	}
}
