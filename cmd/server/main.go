package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/AidasDir/cub-api-en-docker/internal/config"
	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/handlers"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
	"github.com/AidasDir/cub-api-en-docker/internal/routes"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Check Magic secret (warn if not set, but don't fail — the token
	// exchange route reports the misconfiguration per-request)
	if cfg.MagicSecretKey == "" {
		log.Println("⚠️  WARNING: MAGIC_SECRET_KEY not set. Magic Link token exchange will not work.")
		log.Println("   Get a secret key from the Magic dashboard and set MAGIC_SECRET_KEY=<key>")
	} else {
		log.Println("✅ Magic Link secret configured")
	}

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Build the Magic exchange bridge once, from config
	handlers.InitMagicBridge(cfg)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Token", "Profile", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Redis-backed rate limiting when Redis is configured
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer database.DisconnectRedis()
		r.Use(middleware.RateLimitMiddleware)
		log.Println("✅ Per-IP rate limiting enabled")
	} else {
		log.Println("Warning: REDIS_URI not set. Rate limiting disabled")
	}

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /")
	log.Println("  GET  /api/checker")
	log.Println("  POST /api/device/add")
	log.Println("  GET  /api/device/generate-code")
	log.Println("  POST /api/token/generate")
	log.Println("  GET  /api/bookmarks/all")
	log.Println("  POST /api/bookmarks/add")
	log.Println("  POST /api/bookmarks/remove")
	log.Println("  GET  /api/profiles/all")
	log.Println("  GET  /api/notifications/all")
	log.Println("  GET  /api/users/get")
	log.Println("  POST /api/users/give")

	log.Printf("🚀 CUB API backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
