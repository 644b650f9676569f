package main

import (
	"log"
	"os"

	"trafkin/backend/config"
	"trafkin/backend/database"
	"trafkin/backend/handlers"
	"trafkin/backend/metrics"
	"trafkin/backend/middleware"
	"trafkin/backend/resolver"
	"trafkin/backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	metrics.Register()
	metrics.Serve(cfg.Metrics.Port)

	// Viewer counts: random filler by default, real presence counters when
	// Valkey is configured.
	var viewers resolver.ViewerCountProvider
	var presence *services.ValkeyViewers
	random := resolver.NewRandomViewers(cfg.Resolver.ViewerMin, cfg.Resolver.ViewerMax)
	viewers = random
	if cfg.Valkey.Enabled {
		presence, err = services.NewValkeyViewers(cfg.Valkey.Addr, random)
		if err != nil {
			log.Printf("Warning: Valkey unavailable, using random viewer counts: %v", err)
		} else {
			viewers = presence
			defer presence.Close()
		}
	}

	clock := resolver.RealClock{}
	notifier := services.NewNotifier()

	hub := services.NewHub()
	go hub.Run()
	go hub.RelayChanges(notifier.Subscribe(
		services.TopicHotSpots,
		services.TopicVideos,
		services.TopicScheduledVideos,
	))

	liveService := services.NewLiveService(db, clock, viewers, notifier, cfg.Resolver.PollInterval)
	liveService.Start()
	defer liveService.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg.JWT)
	hotSpotHandler := handlers.NewHotSpotHandler(db, notifier)
	videoHandler := handlers.NewVideoHandler(db, notifier, cfg.Media)
	scheduleHandler := handlers.NewScheduleHandler(db, notifier, clock)
	liveHandler := handlers.NewLiveHandler(liveService, hub, presence)
	announcementHandler := handlers.NewAnnouncementHandler(db)
	incidentHandler := handlers.NewIncidentHandler(db)
	adHandler := handlers.NewAdHandler(db, clock)
	userHandler := handlers.NewUserHandler(db)

	router := setupRouter(cfg, authHandler, hotSpotHandler, videoHandler, scheduleHandler,
		liveHandler, announcementHandler, incidentHandler, adHandler, userHandler)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	hotSpotHandler *handlers.HotSpotHandler,
	videoHandler *handlers.VideoHandler,
	scheduleHandler *handlers.ScheduleHandler,
	liveHandler *handlers.LiveHandler,
	announcementHandler *handlers.AnnouncementHandler,
	incidentHandler *handlers.IncidentHandler,
	adHandler *handlers.AdHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Serve uploaded media statically
	router.Static(cfg.Media.PublicPath, cfg.Media.UploadPath)

	// Public routes
	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		api.GET("/hotspots", hotSpotHandler.GetHotSpots)
		api.GET("/hotspots/:id", hotSpotHandler.GetHotSpot)
		api.GET("/hotspots/:id/current-video", liveHandler.GetCurrentVideo)
		api.GET("/hotspots/:id/stats", liveHandler.GetStats)
		api.GET("/live/streams", liveHandler.GetStreams)
		api.GET("/announcements", announcementHandler.GetAnnouncements)
		api.GET("/incidents", incidentHandler.GetIncidents)
		api.GET("/ads", adHandler.GetActiveAds)
	}

	// Authenticated routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		protected.GET("/auth/me", authHandler.GetMe)
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/events", liveHandler.Events)
		protected.POST("/hotspots/:id/watch", liveHandler.Watch)
		protected.DELETE("/hotspots/:id/watch", liveHandler.Unwatch)

		protected.POST("/incidents", incidentHandler.CreateIncident)
		protected.POST("/incidents/:id/react", incidentHandler.ReactToIncident)

		// Relay contributors
		relay := protected.Group("")
		relay.Use(middleware.RequireRole("relais", "admin"))
		{
			relay.POST("/videos", videoHandler.UploadVideo)
			relay.GET("/videos/mine", videoHandler.GetMyVideos)
		}

		// Administrators
		admin := protected.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/hotspots", hotSpotHandler.CreateHotSpot)
			admin.PUT("/hotspots/:id", hotSpotHandler.UpdateHotSpot)
			admin.DELETE("/hotspots/:id", hotSpotHandler.DeleteHotSpot)

			admin.GET("/videos", videoHandler.GetVideos)
			admin.PUT("/videos/:id/approve", videoHandler.ApproveVideo)
			admin.PUT("/videos/:id/reject", videoHandler.RejectVideo)
			admin.DELETE("/videos/:id", videoHandler.DeleteVideo)

			admin.GET("/schedules", scheduleHandler.GetSchedules)
			admin.POST("/schedules", scheduleHandler.CreateSchedule)
			admin.DELETE("/schedules/:id", scheduleHandler.DeleteSchedule)
			admin.PUT("/schedules/:id/live", scheduleHandler.SetLive)

			admin.POST("/announcements", announcementHandler.CreateAnnouncement)
			admin.PUT("/announcements/:id", announcementHandler.UpdateAnnouncement)
			admin.DELETE("/announcements/:id", announcementHandler.DeleteAnnouncement)
			admin.DELETE("/incidents/:id", incidentHandler.DeleteIncident)

			admin.GET("/ads/all", adHandler.GetAds)
			admin.POST("/ads", adHandler.CreateAd)
			admin.PUT("/ads/:id", adHandler.UpdateAd)
			admin.DELETE("/ads/:id", adHandler.DeleteAd)

			admin.GET("/users", userHandler.GetUsers)
			admin.PUT("/users/:id/role", userHandler.UpdateRole)
		}
	}

	return router
}
