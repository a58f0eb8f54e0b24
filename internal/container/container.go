package container

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/uhhbai/nutriSnap/app/db"
	"github.com/uhhbai/nutriSnap/config"
	"github.com/uhhbai/nutriSnap/internal/api/advisor"
	"github.com/uhhbai/nutriSnap/internal/api/ai"
	"github.com/uhhbai/nutriSnap/internal/api/analysis"
	"github.com/uhhbai/nutriSnap/internal/api/auth"
	"github.com/uhhbai/nutriSnap/internal/api/meal"
	"github.com/uhhbai/nutriSnap/internal/api/profile"
	"github.com/uhhbai/nutriSnap/internal/api/recipes"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	AuthHandler     *auth.HandlerImpl
	ProfileHandler  *profile.HandlerImpl
	AnalysisHandler *analysis.HandlerImpl
	AdvisorHandler  *advisor.HandlerImpl
	RecipesHandler  *recipes.HandlerImpl
	MealHandler     *meal.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	// Initialize database
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	aiClient, err := ai.NewGatewayClient(cfg.Gateway, os.Getenv("AI_GATEWAY_API_KEY"), logger)
	if err != nil {
		logger.Error("Failed to initialize AI gateway client", slog.Any("error", err))
		return nil, err
	}

	// Initialize repositories
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	profileRepo := profile.NewPostgresProfileRepo(pool, logger)
	mealRepo := meal.NewPostgresMealRepo(pool, logger)

	// Initialize services
	authService := auth.NewAuthService(authRepo, cfg, logger)
	profileService := profile.NewProfileService(profileRepo, logger)
	analysisService := analysis.NewAnalysisService(aiClient, logger)
	advisorService := advisor.NewAdvisorService(aiClient, profileRepo, logger)
	recipesService := recipes.NewRecipesService(aiClient, logger)
	mealService := meal.NewMealService(mealRepo, profileRepo, cfg.Goals, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		AuthHandler:     auth.NewAuthHandlerImpl(authService, logger),
		ProfileHandler:  profile.NewProfileHandlerImpl(profileService, logger),
		AnalysisHandler: analysis.NewAnalysisHandlerImpl(analysisService, logger),
		AdvisorHandler:  advisor.NewAdvisorHandlerImpl(advisorService, logger),
		RecipesHandler:  recipes.NewRecipesHandlerImpl(recipesService, logger),
		MealHandler:     meal.NewMealHandlerImpl(mealService, logger),
	}, nil
}

// Close releases pooled resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
