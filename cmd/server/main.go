package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/inkwell-app/inkwell-backend/internal/config"
	"github.com/inkwell-app/inkwell-backend/internal/database"
	"github.com/inkwell-app/inkwell-backend/internal/handlers"
	"github.com/inkwell-app/inkwell-backend/internal/middleware"
	"github.com/inkwell-app/inkwell-backend/internal/routes"
	"github.com/inkwell-app/inkwell-backend/internal/services"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Println("⚠️  WARNING: JWT_SECRET not set, using the insecure default.")
		log.Println("   Generate one with: openssl rand -base64 32")
	}

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (refresh token versions + dev rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (admin audit trail). Optional: the app runs without
	// it, audit events just go unrecorded.
	var audit *services.AuditService
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Printf("⚠️  WARNING: MongoDB unavailable, audit trail disabled: %v", err)
	} else {
		defer database.DisconnectMongo()
		audit = services.NewAuditService(database.DB)
		if err := audit.EnsureAuditIndexes(context.Background()); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure audit indexes: %v", err)
		} else {
			log.Println("✅ MongoDB audit indexes ensured")
		}
	}

	// AI summaries (optional)
	var summaries services.Summarizer
	if cfg.GeminiAPIKey != "" {
		summaries = services.NewGeminiSummarizer(cfg.GeminiAPIKey)
		log.Println("✅ Gemini summarizer initialized")
	} else {
		log.Println("Warning: GEMINI_API_KEY not found. AI summaries will not be available")
	}

	// Wire the service layer
	db := store.NewPostgres(database.PostgresDB)
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	versions := services.NewRedisRefreshVersions(database.RedisClient)
	sessions := services.NewSessionManager(db, tokens, versions)

	handlers.Init(db, sessions, tokens, audit, summaries, handlers.CookieConfig{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	guard := middleware.NewGuard(tokens)
	routes.SetupRoutes(r, guard)

	log.Printf("🚀 Inkwell backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
