package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/uhhbai/nutriSnap/internal/container"
)

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(c *container.Container, authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// The API serves a mobile app, so the CORS policy stays permissive.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public auth routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", c.AuthHandler.Register)
			r.Post("/auth/login", c.AuthHandler.Login)
			r.Post("/auth/refresh", c.AuthHandler.RefreshSession)
		})

		// Everything else requires a valid access token
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/auth/logout", c.AuthHandler.Logout)

			r.Route("/user/profile", func(r chi.Router) {
				r.Get("/", c.ProfileHandler.GetProfile)
				r.Put("/", c.ProfileHandler.UpsertProfile)
			})

			r.Post("/analysis", c.AnalysisHandler.AnalyzeFood)
			r.Post("/advisor/chat", c.AdvisorHandler.Chat)
			r.Post("/recipes/suggest", c.RecipesHandler.SuggestRecipes)

			r.Route("/meals", func(r chi.Router) {
				r.Post("/", c.MealHandler.LogMeal)
				r.Get("/", c.MealHandler.ListMeals)
				r.Get("/summary", c.MealHandler.DailySummary)
			})
		})
	})

	return r
}
