package handler

import (
	"net/http"
	"time"

	"github.com/spheretrack/sphere/internal/ctxkeys"
	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/service"
)

type StatsHandler struct {
	scoreService *service.ScoreService
}

func NewStatsHandler(scoreService *service.ScoreService) *StatsHandler {
	return &StatsHandler{
		scoreService: scoreService,
	}
}

var scorePeriods = map[string]engine.ScorePeriod{
	"week":   engine.ScoreWeek,
	"month":  engine.ScoreMonth,
	"year":   engine.ScoreYear,
	"custom": engine.ScoreCustom,
}

// Score answers GET /api/stats/score?period=week|month|year|custom.
// Custom periods take start and end date query parameters.
func (h *StatsHandler) Score(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	periodParam := r.URL.Query().Get("period")
	if periodParam == "" {
		periodParam = "week"
	}

	kind, ok := scorePeriods[periodParam]
	if !ok {
		writeError(w, http.StatusBadRequest, "period must be week, month, year or custom")
		return
	}

	var customStart, customEnd *time.Time
	if kind == engine.ScoreCustom {
		start, err := parseDate(r.URL.Query().Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "custom period requires a valid start date")
			return
		}
		end, err := parseDate(r.URL.Query().Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "custom period requires a valid end date")
			return
		}
		customStart, customEnd = &start, &end
	}

	report, err := h.scoreService.Report(user.ID, kind, time.Now(), customStart, customEnd)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
