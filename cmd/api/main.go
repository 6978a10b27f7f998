// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/maple-advisory/crm-backend/internal/api/handlers"
	"github.com/maple-advisory/crm-backend/internal/api/middleware"
	"github.com/maple-advisory/crm-backend/internal/config"
	"github.com/maple-advisory/crm-backend/internal/cron"
	"github.com/maple-advisory/crm-backend/internal/db"
	"github.com/maple-advisory/crm-backend/internal/email"
	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/roster"
	"github.com/maple-advisory/crm-backend/internal/seed"
	"github.com/maple-advisory/crm-backend/internal/service"
	"github.com/maple-advisory/crm-backend/internal/socket"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL (pgxpool + sqlx)
	// ============================================
	ctx := context.Background()

	pg, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()
	log.Println("✅ Connected to PostgreSQL")

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pg.Pool, pg.DB)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Email Service
	// ============================================
	emailSvc := email.NewService(&email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		UseTLS:   cfg.SMTPUseTLS,
	})
	if cfg.SMTPHost != "" {
		log.Println("📧 Email service initialized")
	} else {
		log.Println("⚠️  Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize Notification Service
	// ============================================
	notificationSvc := notification.NewService(repos.NotificationRepo, repos.UserRepo)
	notificationSvc.SetBroadcaster(broadcaster)

	// ============================================
	// Initialize All Services
	// ============================================
	assignmentRoster := cfg.AssignmentRoster
	if len(assignmentRoster) == 0 {
		assignmentRoster = roster.Default
	}

	var statsCache service.StatsCache
	if redisDB != nil {
		statsCache = redisDB
	}

	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Roster:      assignmentRoster,
		NotifSvc:    notificationSvc,
		EmailSvc:    emailSvc,
		Cache:       statsCache,
		Broadcaster: broadcaster,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services, notificationSvc)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(
		services,
		notificationSvc,
		emailSvc,
		repos.LeadRepo,
		repos.ProjectRepo,
		repos.UserRepo,
		repos.NotificationRepo,
		cfg.FrontendURL,
	)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.BotSecretHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"websocket":  "active",
			"ws_clients": hub.GetConnectedClientsCount(),
			"email":      getEmailStatus(cfg.SMTPHost),
		})
	})

	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// WebSocket route
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Bot routes (shared-secret auth)
		// ============================================
		bot := api.Group("/bot")
		bot.Use(middleware.BotAuthMiddleware(cfg.BotAPISecret))
		{
			bot.POST("/link", h.Bot.Link)
			bot.POST("/unlink", h.Bot.Unlink)
			bot.POST("/whoami", h.Bot.WhoAmI)
			bot.POST("/leads", h.Bot.CreateLead)
			bot.POST("/leads/convert", h.Bot.ConvertLead)
			bot.POST("/leads/mine", h.Bot.MyLeads)
			bot.POST("/stats", h.Bot.MyStats)
		}

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth, services.User))
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", h.User.ListUsers)
				users.PUT("/:id", h.User.UpdateUser)
				users.PATCH("/:id", h.User.UpdateUser)
				users.DELETE("/:id", middleware.RequireAdmin(), h.User.DeleteUser)
			}

			// Lead routes
			leads := protected.Group("/leads")
			{
				leads.GET("", h.Lead.ListLeads)
				leads.POST("", h.Lead.CreateLead)
				leads.GET("/stats", h.Lead.GetStats)
				leads.GET("/:id", h.Lead.GetLead)
				leads.PUT("/:id", h.Lead.UpdateLead)
				leads.PATCH("/:id", h.Lead.UpdateLead)
				leads.DELETE("/:id", h.Lead.DeleteLead)
				leads.POST("/:id/convert", h.Lead.ConvertLead)
			}

			// Client routes
			clients := protected.Group("/clients")
			{
				clients.GET("", h.Client.ListClients)
				clients.POST("", h.Client.CreateClient)
				clients.GET("/:id", h.Client.GetClient)
				clients.PUT("/:id", h.Client.UpdateClient)
				clients.PATCH("/:id", h.Client.UpdateClient)
				clients.DELETE("/:id", h.Client.DeleteClient)

				clients.GET("/:id/comments", h.Client.ListComments)
				clients.POST("/:id/comments", h.Client.AddComment)
				clients.DELETE("/:id/comments/:commentId", h.Client.DeleteComment)
			}

			// Project routes
			projects := protected.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.POST("", h.Project.CreateProject)
				projects.GET("/:id", h.Project.GetProject)
				projects.PUT("/:id", h.Project.UpdateProject)
				projects.PATCH("/:id", h.Project.UpdateProject)
				projects.DELETE("/:id", h.Project.DeleteProject)

				projects.GET("/:id/members", h.Project.ListMembers)
				projects.POST("/:id/members", h.Project.AddMember)
				projects.DELETE("/:id/members/:userId", h.Project.RemoveMember)

				projects.GET("/:id/comments", h.Project.ListComments)
				projects.POST("/:id/comments", h.Project.AddComment)
				projects.DELETE("/:id/comments/:commentId", h.Project.DeleteComment)
			}

			// Fund tracker routes
			funds := protected.Group("/funds")
			{
				funds.GET("", h.FundTracker.ListFunds)
				funds.POST("", h.FundTracker.CreateFund)
				funds.POST("/import/preview", h.FundTracker.ImportPreview)
				funds.POST("/import", h.FundTracker.ImportCommit)
				funds.GET("/:id", h.FundTracker.GetFund)
				funds.PUT("/:id", h.FundTracker.UpdateFund)
				funds.DELETE("/:id", h.FundTracker.DeleteFund)
			}

			// Client master data routes (approval gated)
			masterData := protected.Group("/master-data")
			{
				masterData.GET("", h.MasterData.ListEntries)
				masterData.POST("", h.MasterData.CreateEntry)
				masterData.POST("/import/preview", h.MasterData.ImportPreview)
				masterData.POST("/import", h.MasterData.ImportCommit)

				masterData.POST("/access/request", h.MasterData.RequestAccess)
				masterData.GET("/access/me", h.MasterData.MyAccessStatus)
				masterData.GET("/access", middleware.RequireAdmin(), h.MasterData.ListPermissions)
				masterData.POST("/access/:userId/approve", middleware.RequireAdmin(), h.MasterData.ApproveAccess)
				masterData.POST("/access/:userId/revoke", middleware.RequireAdmin(), h.MasterData.RevokeAccess)

				masterData.GET("/:id", h.MasterData.GetEntry)
				masterData.PUT("/:id", h.MasterData.UpdateEntry)
				masterData.DELETE("/:id", h.MasterData.DeleteEntry)
			}

			// Team member roster routes (writes are admin only)
			teamMembers := protected.Group("/team-members")
			{
				teamMembers.GET("", h.TeamMember.ListMembers)
				teamMembers.GET("/:id", h.TeamMember.GetMember)
				teamMembers.POST("", middleware.RequireAdmin(), h.TeamMember.CreateMember)
				teamMembers.PUT("/:id", middleware.RequireAdmin(), h.TeamMember.UpdateMember)
				teamMembers.PATCH("/:id", middleware.RequireAdmin(), h.TeamMember.UpdateMember)
				teamMembers.DELETE("/:id", middleware.RequireAdmin(), h.TeamMember.DeleteMember)
			}

			// Partner routes
			partners := protected.Group("/partners")
			{
				partners.GET("", h.Partner.ListPartners)
				partners.POST("", h.Partner.CreatePartner)
				partners.GET("/:id", h.Partner.GetPartner)
				partners.PUT("/:id", h.Partner.UpdatePartner)
				partners.PATCH("/:id", h.Partner.UpdatePartner)
				partners.DELETE("/:id", h.Partner.DeletePartner)
			}

			// Outreach routes
			outreach := protected.Group("/outreach")
			{
				outreach.GET("", h.Outreach.ListCampaigns)
				outreach.POST("", h.Outreach.CreateCampaign)
				outreach.GET("/:id", h.Outreach.GetCampaign)
				outreach.PUT("/:id", h.Outreach.UpdateCampaign)
				outreach.PATCH("/:id", h.Outreach.UpdateCampaign)
				outreach.DELETE("/:id", h.Outreach.DeleteCampaign)
				outreach.GET("/:id/recipients", h.Outreach.ListRecipients)
				outreach.POST("/:id/recipients", h.Outreach.AddRecipients)
				outreach.POST("/:id/send", h.Outreach.SendCampaign)
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.GET("/count", h.Notification.UnreadCount)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
			}
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func getEmailStatus(smtpHost string) string {
	if smtpHost != "" {
		return "configured"
	}
	return "disabled"
}
