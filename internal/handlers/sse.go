package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/aymerigermain/dashboard-acadi/internal/models"
	"github.com/aymerigermain/dashboard-acadi/internal/observability"
	"github.com/aymerigermain/dashboard-acadi/internal/services"
)

const maxWeeklyRows = 52

var weeklyTableTemplate = template.Must(template.New("weeklyTable").Parse(`
<div id="weekly-content">
<table class="modern-table">
<thead><tr><th>Semaine</th><th>Ventes</th><th>CA brut</th><th>Remboursements</th><th>Frais</th><th>CA net</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Week}}</td>
<td>{{.Sales}}</td>
<td><strong>{{printf "%.2f" .GrossRevenue}}&euro;</strong></td>
<td>{{printf "%.2f" .Refunds}}&euro;</td>
<td>{{printf "%.2f" .Fees}}&euro;</td>
<td>{{printf "%.2f" .NetRevenue}}&euro;</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	stats  *services.Stats
	logger *slog.Logger
}

func NewSSEHandlers(stats *services.Stats, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		stats:  stats,
		logger: logger,
	}
}

type weeklyTableData struct {
	Rows []models.WeeklyStat
}

// renderWeeklyTable shows the most recent weeks first; the canonical
// series stays chronological, so the reversal happens here.
func renderWeeklyTable(weekly []models.WeeklyStat) (string, error) {
	rows := make([]models.WeeklyStat, 0, min(len(weekly), maxWeeklyRows))
	for i := len(weekly) - 1; i >= 0 && len(rows) < maxWeeklyRows; i-- {
		rows = append(rows, weekly[i])
	}

	var buf strings.Builder
	err := weeklyTableTemplate.Execute(&buf, weeklyTableData{Rows: rows})
	return buf.String(), err
}

func (h *SSEHandlers) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	stats, err := h.stats.ComputeStats(r.Context())
	if err != nil {
		h.logger.Error("compute stats", "error", err, "request_id", observability.GetRequestID(r.Context()))
		return
	}

	html, err := renderWeeklyTable(stats.WeeklyStats)
	if err != nil {
		h.logger.Error("render weekly table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	stats, err := h.stats.ComputeStats(r.Context())
	if err != nil {
		h.logger.Error("compute stats", "error", err, "request_id", observability.GetRequestID(r.Context()))
		return
	}

	jsonData, err := json.Marshal(map[string]any{
		"statsData": stats,
	})
	if err != nil {
		h.logger.Error("marshal stats data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	// One aggregation pass feeds both the signals and the table.
	stats, err := h.stats.ComputeStats(r.Context())
	if err != nil {
		h.logger.Error("compute stats", "error", err, "request_id", observability.GetRequestID(r.Context()))
		return
	}

	html, err := renderWeeklyTable(stats.WeeklyStats)
	if err != nil {
		h.logger.Error("render weekly table", "error", err)
		return
	}
	sse.PatchElements(html)

	jsonData, err := json.Marshal(map[string]any{
		"statsData": stats,
	})
	if err != nil {
		h.logger.Error("marshal stats data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
