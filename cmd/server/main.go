package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/symptomai/symptomai-be/internal/api"
	"github.com/symptomai/symptomai-be/internal/api/middleware"
	"github.com/symptomai/symptomai-be/internal/dataset"
	"github.com/symptomai/symptomai-be/internal/db"
	"github.com/symptomai/symptomai-be/internal/engine"
	"github.com/symptomai/symptomai-be/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Get configuration from environment
	port := getEnv("PORT", "8080")
	databaseURL := getEnv("DATABASE_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "")
	dataDir := getEnv("DATA_DIR", "./data")

	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize database
	database, err := db.NewFromURL(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("✅ Database connected")

	// Load the medical reference dataset. Missing files degrade to an
	// empty store; the engine then answers every analysis with a no-match
	// message rather than crashing.
	store := dataset.Load(dataDir)
	eng := engine.NewEngine(store)

	log.Println("✅ Matching engine ready")

	// Initialize handlers
	authHandler := api.NewAuthHandler(database, jwtSecret)
	oauthHandler := api.NewOAuthHandler(database, authHandler)
	analyzeHandler := api.NewAnalyzeHandler(eng)
	conversationHandler := api.NewConversationHandler(database)
	chatHandler := ws.NewChatHandler(eng, database, jwtSecret)

	// Setup Gin router
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Global rate limit: ~100 requests/minute per IP
	router.Use(middleware.PerIP(100.0/60.0, 200))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"diseases": len(store.Diseases()),
			"time":     time.Now().Unix(),
		})
	})

	// Auth routes (public)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWTAuth(jwtSecret), authHandler.Me)

		// OAuth routes - Web flow (browser redirects)
		auth.GET("/google", oauthHandler.GoogleLogin)
		auth.GET("/google/callback", oauthHandler.GoogleCallback)

		// OAuth routes - Mobile flow (ID token verification)
		auth.POST("/google/token", oauthHandler.GoogleTokenAuth)
	}

	// Symptom analysis (public; caller id attached when a token is sent)
	router.POST("/api/analyze",
		middleware.OptionalJWTAuth(jwtSecret),
		middleware.PerIP(30.0/60.0, 10),
		analyzeHandler.Analyze,
	)

	// Conversation routes (protected + per-user rate limiting)
	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.JWTAuth(jwtSecret))
	apiGroup.Use(middleware.PerUser(500.0/3600.0, 100)) // 500/hour per user
	conversationHandler.RegisterRoutes(apiGroup)

	// WebSocket chat route (protected via query param/header)
	router.GET("/ws/chat", chatHandler.HandleChat)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", port)
		log.Printf("📝 API endpoints:")
		log.Printf("   POST   /api/auth/register")
		log.Printf("   POST   /api/auth/login")
		log.Printf("   GET    /api/auth/me")
		log.Printf("   GET    /api/auth/google (web)")
		log.Printf("   GET    /api/auth/google/callback (web)")
		log.Printf("   POST   /api/auth/google/token (mobile)")
		log.Printf("   POST   /api/analyze")
		log.Printf("   GET    /api/conversations")
		log.Printf("   POST   /api/conversations")
		log.Printf("   GET    /api/conversations/:id")
		log.Printf("   DELETE /api/conversations/:id")
		log.Printf("   GET    /api/conversations/:id/messages")
		log.Printf("   POST   /api/conversations/:id/messages")
		log.Printf("   WS     /ws/chat")
		log.Printf("")
		log.Printf("Press Ctrl+C to stop")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
