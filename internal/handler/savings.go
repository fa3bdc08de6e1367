package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spheretrack/sphere/internal/ctxkeys"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/service"
)

type SavingsHandler struct {
	savingsService *service.SavingsService
}

func NewSavingsHandler(savingsService *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

type savingsGoalRequest struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	TargetAmount float64    `json:"targetAmount"`
	Currency     string     `json:"currency"`
	StartAmount  float64    `json:"startAmount"`
	DueDate      *time.Time `json:"dueDate"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
}

func (req *savingsGoalRequest) toModel(base *model.SavingsGoal) *model.SavingsGoal {
	goal := *base
	goal.Name = req.Name
	goal.Type = req.Type
	goal.TargetAmount = req.TargetAmount
	goal.StartAmount = req.StartAmount
	goal.DueDate = req.DueDate
	goal.Category = req.Category
	goal.Description = req.Description
	goal.Icon = req.Icon

	goal.Currency = req.Currency
	if goal.Currency == "" {
		goal.Currency = "EUR"
	}

	return &goal
}

func (h *SavingsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var goals []*model.SavingsGoal
	var err error
	if r.URL.Query().Get("all") == "true" {
		goals, err = h.savingsService.All(user.ID)
	} else {
		goals, err = h.savingsService.Active(user.ID)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *SavingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req savingsGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal, err := h.savingsService.Create(req.toModel(&model.SavingsGoal{UserID: user.ID}))
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *SavingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	detail, err := h.savingsService.Detail(user.ID, r.PathValue("id"), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *SavingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	existing, err := h.savingsService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req savingsGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal := req.toModel(existing)
	err = h.savingsService.Update(goal)
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *SavingsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.savingsService.SetArchived(user.ID, r.PathValue("id"), true)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SavingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.savingsService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type savingsEntryRequest struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
	Source string  `json:"source"`
}

func (h *SavingsHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req savingsEntryRequest
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

	entry, err := h.savingsService.UpsertEntry(user.ID, r.PathValue("id"), date, req.Amount, req.Note, req.Source)
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *SavingsHandler) Entries(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entries, err := h.savingsService.Entries(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *SavingsHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.savingsService.DeleteEntry(user.ID, r.PathValue("entryId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SavingsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	days := 90
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 730 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 730")
			return
		}
		days = n
	}

	overview, err := h.savingsService.Overview(user.ID, days, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *SavingsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	months := 12
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeError(w, http.StatusBadRequest, "months must be between 1 and 60")
			return
		}
		months = n
	}

	rollup, err := h.savingsService.MonthlyRollup(user.ID, months, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rollup)
}
