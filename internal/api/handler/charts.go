package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/chart"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/apiErrors"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/log"
)

// GetChart renderiza um gráfico do dashboard como PNG ou SVG
func GetChart(service dashboarding.Dashboarder, renderer chart.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chart.Name(httprouter.ParamsFromContext(r.Context()).ByName("chart"))

		format, err := chart.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

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

		logger := log.ForContext(r.Context()).WithFields(log.Fields{
			"render_id": resp.RenderID,
			"view":      resp.View,
			"chart":     name,
		})

		// Renderiza em buffer para poder responder com erro JSON se falhar
		var buf bytes.Buffer
		err = renderer.Render(&buf, name, resp, format)
		switch {
		case errors.Is(err, chart.ErrUnknownChart), errors.Is(err, chart.ErrChartUnavailable):
			apiErrors.WriteError(w, apiErrors.ErrChartUnavailable, err.Error(), nil)
			return
		case err != nil:
			logger.WithError(err).Error("charts: erro ao renderizar gráfico")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao renderizar gráfico", nil)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(buf.Bytes()); err != nil {
			logger.WithError(err).Warn("charts: erro ao enviar imagem")
		}
	}
}
