package routes

import (
	"net/http"
	"time"

	"github.com/faunapedia/api-go/controllers"
	"github.com/faunapedia/api-go/middleware"
	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Store       store.Store
	StoreDriver string
	Uploads     *services.UploadService
	Verifier    *middleware.TokenVerifier
	Logger      *zap.Logger

	AdminAPIKey    string
	AllowedOrigins []string
}

// SetupRouter builds the engine with every route of the API.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.AdminKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})

	SetupRoutes(r, deps)
	return r
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	logger := deps.Logger

	// Services
	users := services.NewUserService(deps.Store, logger)
	animals := services.NewAnimalService(deps.Store)
	game := services.NewGameService(deps.Store, logger)
	posts := services.NewPostService(deps.Store, deps.Uploads, logger)
	posts.OnCommit(game.BadgeHook())
	social := services.NewSocialService(deps.Store, logger)
	mapping := services.NewMapService(deps.Store)
	catalog := services.NewCatalogService(deps.Store, logger)

	// Controllers
	healthController := controllers.NewHealthController(deps.Store, deps.StoreDriver, logger)
	animalController := controllers.NewAnimalController(animals, posts, logger)
	postController := controllers.NewPostController(posts, logger)
	interactionController := controllers.NewInteractionController(social, logger)
	quizController := controllers.NewQuizController(game, logger)
	leaderboardController := controllers.NewLeaderboardController(game, logger)
	userController := controllers.NewUserController(users, logger)
	mapController := controllers.NewMapController(mapping, logger)
	uploadController := controllers.NewUploadController(deps.Uploads, logger)

	r.GET("/health", healthController.Live)

	// Public routes, personalised when a valid token is sent
	public := r.Group("/api")
	public.Use(middleware.OptionalAuth(deps.Verifier), middleware.OptionalUser(users, logger))
	{
		public.GET("/health", healthController.Ready)
		SetupAnimalRoutes(public, animalController)
		SetupPostRoutes(public, postController)
		SetupInteractionRoutes(public, interactionController)
		SetupUserRoutes(public, userController)
		SetupGameRoutes(public, leaderboardController)
		SetupMapRoutes(public, mapController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.Auth(deps.Verifier, logger), middleware.RequireUser(users, logger))
	{
		SetupProtectedPostRoutes(protected, postController)
		SetupProtectedInteractionRoutes(protected, interactionController)
		SetupQuizRoutes(protected, quizController)
		SetupUploadRoutes(protected, uploadController)
		protected.GET("/me", userController.GetMe)
	}

	// Admin routes only exist when a key is configured
	if deps.AdminAPIKey != "" {
		admin := r.Group("/admin")
		admin.Use(middleware.AdminKey(deps.AdminAPIKey))
		SetupAdminRoutes(admin, controllers.NewAdminController(catalog, logger))
	}
}
