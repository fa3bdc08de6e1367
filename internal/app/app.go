package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/spheretrack/sphere/internal/config"
	"github.com/spheretrack/sphere/internal/db"
	"github.com/spheretrack/sphere/internal/repository"
	"github.com/spheretrack/sphere/internal/service"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	AuthService        *service.AuthService
	UserService        *service.UserService
	GoalService        *service.GoalService
	XPService          *service.XPService
	ScoreService       *service.ScoreService
	SavingsService     *service.SavingsService
	AchievementService *service.AchievementService
	RewardService      *service.RewardService
	ExportService      *service.ExportService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	goalEntryRepository := repository.NewGoalEntryRepository(database)
	streakFreezeRepository := repository.NewStreakFreezeRepository(database)
	xpEventRepository := repository.NewXPEventRepository(database)
	savingsGoalRepository := repository.NewSavingsGoalRepository(database)
	savingsEntryRepository := repository.NewSavingsEntryRepository(database)
	achievementRepository := repository.NewAchievementRepository(database)
	rewardRepository := repository.NewRewardRepository(database)

	// Services
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository, cfg.FreezeLimitPerMonth)
	xpService := service.NewXPService(database, userRepository, xpEventRepository)
	achievementService := service.NewAchievementService(achievementRepository, goalRepository, goalEntryRepository, streakFreezeRepository)
	goalService := service.NewGoalService(goalRepository, goalEntryRepository, streakFreezeRepository, userRepository, xpService, achievementService)
	scoreService := service.NewScoreService(goalRepository, goalEntryRepository)
	savingsService := service.NewSavingsService(savingsGoalRepository, savingsEntryRepository)
	rewardService := service.NewRewardService(database, rewardRepository, userRepository)
	exportService := service.NewExportService(
		database,
		userRepository,
		goalRepository,
		goalEntryRepository,
		streakFreezeRepository,
		savingsGoalRepository,
		savingsEntryRepository,
		achievementRepository,
		xpEventRepository,
	)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		AuthService:        authService,
		UserService:        userService,
		GoalService:        goalService,
		XPService:          xpService,
		ScoreService:       scoreService,
		SavingsService:     savingsService,
		AchievementService: achievementService,
		RewardService:      rewardService,
		ExportService:      exportService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
