package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/AnshRaj112/pookie-backend/internal/config"
	"github.com/AnshRaj112/pookie-backend/internal/database"
	"github.com/AnshRaj112/pookie-backend/internal/handlers"
	"github.com/AnshRaj112/pookie-backend/internal/middleware"
	"github.com/AnshRaj112/pookie-backend/internal/repository"
	"github.com/AnshRaj112/pookie-backend/internal/routes"
	"github.com/AnshRaj112/pookie-backend/internal/services"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL (users, devices)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, rate limiting, profile cache)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Media uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Media uploads will not be available")
	}

	// Select the entry storage backend
	var entryRepo repository.EntryRepository
	switch cfg.StorageBackend {
	case config.StorageBackendLocal:
		localRepo, err := repository.NewLocalRepository(cfg.LocalStorePath)
		if err != nil {
			log.Fatal("Failed to open local entry store:", err)
		}
		entryRepo = localRepo
		log.Printf("✅ Using local entry store at %s", cfg.LocalStorePath)
	default:
		// Log connection attempt (without showing password)
		log.Printf("Connecting to MongoDB...")
		if cfg.MongoURI != "" {
			log.Printf("MongoDB URI: %s", maskMongoURI(cfg.MongoURI))
		}
		if err := database.Connect(cfg.MongoURI); err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.Disconnect()

		if err := repository.EnsureEntryIndexes(context.Background(), database.DB); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB entry indexes: %v", err)
		} else {
			log.Println("✅ MongoDB entry indexes ensured")
		}
		entryRepo = repository.NewMongoRepository(database.DB)
	}

	// Tag extraction is optional: without an API key entries are saved untagged
	var tagger services.Tagger
	if extractor, err := services.NewTagExtractor(cfg.AnthropicAPIKey, cfg.AnthropicModel); err != nil {
		log.Println("Warning: ANTHROPIC_API_KEY not set. Entries will be saved with empty tags")
	} else {
		tagger = extractor
		log.Println("✅ Tag extraction enabled")
	}

	handlers.InitEntryHandlers(entryRepo, services.NewEntryService(tagger))

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
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

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/auth/signup")
	log.Println("  POST   /api/auth/signin")
	log.Println("  GET    /api/auth/me")
	log.Println("  POST   /api/auth/signout")
	log.Println("  POST   /api/auth/check-username")
	log.Println("  POST   /api/entries")
	log.Println("  GET    /api/entries")
	log.Println("  DELETE /api/entries")
	log.Println("  GET    /api/entries/export")
	log.Println("  POST   /api/upload")

	log.Printf("🚀 Pookie Journal backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// maskMongoURI hides the password portion of a connection string for logs.
func maskMongoURI(uri string) string {
	if !strings.Contains(uri, "@") {
		return uri
	}
	parts := strings.Split(uri, "@")
	if !strings.Contains(parts[0], ":") {
		return uri
	}
	userPass := strings.Split(parts[0], ":")
	if len(userPass) >= 3 {
		return strings.Replace(uri, userPass[2], "***", 1)
	}
	return uri
}
