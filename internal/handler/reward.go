package handler

import (
	"net/http"

	"github.com/spheretrack/sphere/internal/ctxkeys"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/service"
)

type RewardHandler struct {
	rewardService *service.RewardService
}

func NewRewardHandler(rewardService *service.RewardService) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
	}
}

type rewardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCoins  int    `json:"priceCoins"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	rewards, err := h.rewardService.Active(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req rewardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reward, err := h.rewardService.Create(&model.Reward{
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		PriceCoins:  req.PriceCoins,
		Icon:        req.Icon,
		Category:    req.Category,
	})
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.rewardService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RewardHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	purchase, err := h.rewardService.Purchase(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, purchase)
}

func (h *RewardHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	purchases, err := h.rewardService.Purchases(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, purchases)
}
