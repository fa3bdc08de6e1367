package routes

import (
	"net/http"

	"github.com/spheretrack/sphere/internal/app"
	"github.com/spheretrack/sphere/internal/handler"
	"github.com/spheretrack/sphere/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	goal := handler.NewGoalHandler(app.GoalService)
	stats := handler.NewStatsHandler(app.ScoreService)
	savings := handler.NewSavingsHandler(app.SavingsService)
	achievement := handler.NewAchievementHandler(app.AchievementService)
	reward := handler.NewRewardHandler(app.RewardService)
	settings := handler.NewSettingsHandler(app.XPService)
	export := handler.NewExportHandler(app.ExportService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("POST /api/goals/{id}/archive", middleware.RequireAuth(goal.Archive))
	mux.HandleFunc("POST /api/goals/{id}/unarchive", middleware.RequireAuth(goal.Unarchive))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Entries + read models
	mux.HandleFunc("GET /api/goals/{id}/entries", middleware.RequireAuth(goal.Entries))
	mux.HandleFunc("POST /api/goals/{id}/entries", middleware.RequireAuth(goal.UpsertEntry))
	mux.HandleFunc("GET /api/goals/{id}/progress", middleware.RequireAuth(goal.Progress))
	mux.HandleFunc("GET /api/goals/{id}/streak", middleware.RequireAuth(goal.Streak))
	mux.HandleFunc("GET /api/goals/{id}/history", middleware.RequireAuth(goal.History))
	mux.HandleFunc("GET /api/goals/{id}/weekdays", middleware.RequireAuth(goal.WeekdayAverages))

	// Streak freezes
	mux.HandleFunc("GET /api/goals/{id}/freezes", middleware.RequireAuth(goal.Freezes))
	mux.HandleFunc("POST /api/goals/{id}/freezes", middleware.RequireAuth(goal.CreateFreeze))
	mux.HandleFunc("GET /api/goals/{id}/freezes/status", middleware.RequireAuth(goal.FreezeStatus))

	// Sphere scores
	mux.HandleFunc("GET /api/stats/score", middleware.RequireAuth(stats.Score))

	// Savings
	mux.HandleFunc("GET /api/savings", middleware.RequireAuth(savings.List))
	mux.HandleFunc("POST /api/savings", middleware.RequireAuth(savings.Create))
	mux.HandleFunc("GET /api/savings/overview", middleware.RequireAuth(savings.Overview))
	mux.HandleFunc("GET /api/savings/monthly", middleware.RequireAuth(savings.Monthly))
	mux.HandleFunc("GET /api/savings/{id}", middleware.RequireAuth(savings.Get))
	mux.HandleFunc("PUT /api/savings/{id}", middleware.RequireAuth(savings.Update))
	mux.HandleFunc("POST /api/savings/{id}/archive", middleware.RequireAuth(savings.Archive))
	mux.HandleFunc("DELETE /api/savings/{id}", middleware.RequireAuth(savings.Delete))
	mux.HandleFunc("GET /api/savings/{id}/entries", middleware.RequireAuth(savings.Entries))
	mux.HandleFunc("POST /api/savings/{id}/entries", middleware.RequireAuth(savings.UpsertEntry))
	mux.HandleFunc("DELETE /api/savings/entries/{entryId}", middleware.RequireAuth(savings.DeleteEntry))

	// Achievements
	mux.HandleFunc("GET /api/achievements", middleware.RequireAuth(achievement.List))

	// Rewards
	mux.HandleFunc("GET /api/rewards", middleware.RequireAuth(reward.List))
	mux.HandleFunc("POST /api/rewards", middleware.RequireAuth(reward.Create))
	mux.HandleFunc("DELETE /api/rewards/{id}", middleware.RequireAuth(reward.Delete))
	mux.HandleFunc("POST /api/rewards/{id}/purchase", middleware.RequireAuth(reward.Purchase))
	mux.HandleFunc("GET /api/rewards/purchases", middleware.RequireAuth(reward.Purchases))

	// Settings + ledger
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(settings.Me))
	mux.HandleFunc("GET /api/me/xp-events", middleware.RequireAuth(settings.XPEvents))
	mux.HandleFunc("PATCH /api/settings/penalties", middleware.RequireAuth(settings.SetPenalties))
	mux.HandleFunc("POST /api/settings/recompute-xp", middleware.RequireAuth(settings.RecomputeXP))

	// Export / import
	mux.HandleFunc("GET /api/export", middleware.RequireAuth(export.Export))
	mux.HandleFunc("POST /api/import", middleware.RequireAuth(export.Import))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.RateLimitAPI(app.Cfg.RateLimitPerMinute),
		middleware.Auth(app.AuthService, app.UserService),
	)
}
