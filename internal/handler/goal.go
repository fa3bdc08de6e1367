package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spheretrack/sphere/internal/ctxkeys"
	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type goalRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Type              string     `json:"type"`
	Period            string     `json:"period"`
	Metric            string     `json:"metric"`
	Target            *float64   `json:"target"`
	TargetUnit        string     `json:"targetUnit"`
	Category          string     `json:"category"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	CustomPeriodStart *time.Time `json:"customPeriodStart"`
	CustomPeriodEnd   *time.Time `json:"customPeriodEnd"`
	XPReward          *int       `json:"xpReward"`
	Penalty           *int       `json:"penalty"`
	AllowPartial      *bool      `json:"allowPartial"`
	AllowNegative     *bool      `json:"allowNegative"`
}

// toModel applies the request on top of defaults (or an existing goal
// for updates); absent optional fields keep the base values.
func (req *goalRequest) toModel(base *model.Goal) *model.Goal {
	goal := *base
	goal.Title = req.Title
	goal.Description = req.Description
	goal.Type = req.Type
	goal.Period = req.Period
	goal.Metric = req.Metric
	goal.Target = req.Target
	goal.TargetUnit = req.TargetUnit
	goal.Category = req.Category
	goal.EndDate = req.EndDate
	goal.CustomPeriodStart = req.CustomPeriodStart
	goal.CustomPeriodEnd = req.CustomPeriodEnd

	if req.StartDate != nil {
		goal.StartDate = engine.NormalizeDate(*req.StartDate)
	}
	if req.XPReward != nil {
		goal.XPReward = *req.XPReward
	}
	if req.Penalty != nil {
		goal.Penalty = *req.Penalty
	}
	if req.AllowPartial != nil {
		goal.AllowPartial = *req.AllowPartial
	}
	if req.AllowNegative != nil {
		goal.AllowNegative = *req.AllowNegative
	}

	return &goal
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	includeArchived := r.URL.Query().Get("archived") == "true"
	goals, err := h.goalService.Goals(user.ID, includeArchived)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	base := &model.Goal{
		UserID:       user.ID,
		XPReward:     engine.DefaultXPReward,
		Penalty:      engine.DefaultPenalty,
		AllowPartial: true,
	}

	goal, err := h.goalService.Create(req.toModel(base))
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	existing, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal := req.toModel(existing)
	err = h.goalService.Update(goal)
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

func (h *GoalHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *GoalHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.SetArchived(user.ID, r.PathValue("id"), archived)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type entryRequest struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Note  string  `json:"note"`
}

func (h *GoalHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}

	result, err := h.goalService.UpsertEntry(user.ID, r.PathValue("id"), date, req.Value, req.Note)
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *GoalHandler) Entries(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entries, err := h.goalService.Entries(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	progress, err := h.goalService.Progress(user.ID, r.PathValue("id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func (h *GoalHandler) Streak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	streak, err := h.goalService.Streak(user.ID, r.PathValue("id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, streak)
}

func (h *GoalHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	history, err := h.goalService.ProgressHistory(user.ID, r.PathValue("id"), days, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (h *GoalHandler) WeekdayAverages(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	averages, err := h.goalService.WeekdayAverages(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, averages)
}

type freezeRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func (h *GoalHandler) CreateFreeze(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req freezeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	freeze, err := h.goalService.ApplyFreeze(user.ID, r.PathValue("id"), date, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, freeze)
}

func (h *GoalHandler) Freezes(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	freezes, err := h.goalService.Freezes(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, freezes)
}

func (h *GoalHandler) FreezeStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	status, err := h.goalService.FreezeStatusFor(user.ID, r.PathValue("id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
