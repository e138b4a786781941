package main

import (
	"agristore/internal/config"
	"agristore/internal/database"
	"agristore/internal/handlers"
	"agristore/internal/logging"
	"agristore/internal/middleware"
	"agristore/internal/services"
	"agristore/pkg/auth"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting AgriStore Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	// Initialize database (SQLite by default, MySQL via mysql:// DSN)
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	log.Println("✅ Database initialized")

	// Initialize MongoDB (optional - chat transcript archive)
	var transcriptService *services.TranscriptService
	if cfg.MongoURI != "" {
		log.Println("🔗 Connecting to MongoDB...")
		mongoDB, err := database.NewMongoDB(cfg.MongoURI)
		if err != nil {
			log.Printf("⚠️ Failed to connect to MongoDB: %v (transcript archive disabled)", err)
		} else {
			defer mongoDB.Close(context.Background())
			transcriptService = services.NewTranscriptService(mongoDB)
			log.Println("✅ MongoDB connected, transcript archive enabled")
		}
	} else {
		log.Println("⚠️ MONGODB_URI not set - transcript archive disabled")
	}

	// Session store (Redis when configured, in-memory otherwise)
	var sessionStore services.SessionStore
	if cfg.RedisURL != "" {
		log.Println("🔗 Connecting to Redis...")
		redisStore, err := services.NewRedisSessionStore(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (falling back to in-memory sessions)", err)
			sessionStore = services.NewMemorySessionStore()
		} else {
			sessionStore = redisStore
			log.Println("✅ Redis connected, session store enabled")
		}
	} else {
		sessionStore = services.NewMemorySessionStore()
		log.Println("💾 Using in-memory session store")
	}

	// Initialize Prometheus metrics
	services.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Chatbot services
	crawlerClient := services.NewCrawlerClient(cfg.CrawlerUA, cfg.CrawlTimeout)
	crawlerService := services.NewCrawlerService(crawlerClient, cfg.CrawlPages, cfg.CrawlTimeout)
	knowledgeService := services.NewKnowledgeService(crawlerService, cfg.SitemapPath, cfg.SitemapURL)
	chatbotService := services.NewChatbotService(knowledgeService, sessionStore, transcriptService)

	// Storefront services
	settingsService := services.NewSettingsService(db)
	productService := services.NewProductService(db)
	paymentService := services.NewPaymentService(db, settingsService, cfg.PaymentExpiry)
	reportService := services.NewReportService(db)
	invoiceService := services.NewInvoiceService()
	emailService := services.NewEmailService(cfg)
	if emailService.Enabled() {
		log.Println("📧 Invoice email delivery enabled")
	} else {
		log.Println("⚠️ SMTP_HOST not set - invoice email delivery disabled")
	}

	// Seed the catalog and hot-reload on file changes
	ctx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if cfg.ProductSeedFile != "" {
		if err := productService.SeedFromFile(ctx, cfg.ProductSeedFile); err != nil {
			log.Printf("⚠️ Catalog seed failed: %v", err)
		}
		if err := productService.WatchSeedFile(ctx, cfg.ProductSeedFile); err != nil {
			log.Printf("⚠️ Catalog seed watcher failed: %v", err)
		}
	}

	// Payment expiry sweep
	schedulerService, err := services.NewSchedulerService(paymentService, cfg.PaymentSweepCron)
	if err != nil {
		log.Fatalf("❌ Failed to create scheduler: %v", err)
	}
	if err := schedulerService.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	// Admin auth (optional - routes stay open when no password hash is set)
	var jwtAuth *auth.LocalJWTAuth
	if cfg.AdminPasswordHash != "" && cfg.JWTSecret != "" {
		jwtAuth, err = auth.NewLocalJWTAuth(cfg.JWTSecret, 0)
		if err != nil {
			log.Fatalf("❌ Failed to initialize admin auth: %v", err)
		}
		log.Println("🔒 Admin authentication enabled")
	} else {
		log.Println("⚠️ Admin authentication not configured - mutating routes are open")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AgriStore v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    10 * 1024 * 1024, // 10MB for image uploads
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(etag.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("agristore")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS: the storefront frontend is usually served from another origin
	allowCredentials := cfg.AllowedOrigins != "*"
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowCredentials,
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", cfg.AllowedOrigins)

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Chat=%d/min, Payment=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.ChatMax,
		rateLimitConfig.PaymentMax,
	)
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	chatbotHandler := handlers.NewChatbotHandler(chatbotService, cfg.PublicBaseURL)
	productHandler := handlers.NewProductHandler(productService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, settingsService, invoiceService, emailService)
	invoiceHandler := handlers.NewInvoiceHandler(paymentService, settingsService, invoiceService)
	siteImageHandler := handlers.NewSiteImageHandler(services.NewSiteImageService(db), cfg.PublicBaseURL)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	dashboardHandler := handlers.NewDashboardHandler(reportService)
	uploadHandler := handlers.NewUploadHandler()
	authHandler := handlers.NewAuthHandler(jwtAuth, cfg.AdminEmail, cfg.AdminPasswordHash)

	adminOnly := middleware.AdminOnly(jwtAuth)

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "agristore",
			"status":  "running",
		})
	})
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	// Chatbot
	api.Get("/knowledge", chatbotHandler.GetKnowledge)
	api.Post("/chat", middleware.ChatRateLimiter(rateLimitConfig), chatbotHandler.Chat)
	api.Post("/agent-connect", chatbotHandler.AgentConnect)

	// Catalog
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Get)
	api.Post("/products", adminOnly, productHandler.Create)
	api.Put("/products/:id", adminOnly, productHandler.Update)
	api.Delete("/products/:id", adminOnly, productHandler.Delete)

	// Payments
	api.Post("/create-payment", middleware.PaymentRateLimiter(rateLimitConfig), paymentHandler.CreatePayment)
	api.Post("/confirm-payment", paymentHandler.ConfirmPayment)
	api.Get("/transaction/:id", paymentHandler.GetTransaction)
	api.Get("/invoice/:invoice_id", invoiceHandler.Download)

	// Storefront content
	api.Get("/site-images", siteImageHandler.Get)
	api.Post("/site-images", adminOnly, siteImageHandler.Update)
	api.Get("/business-settings", settingsHandler.Get)
	api.Post("/business-settings", adminOnly, settingsHandler.Update)
	api.Post("/upload", adminOnly, uploadHandler.Handle)

	// Admin
	api.Post("/admin/login", authHandler.Login)
	api.Get("/dashboard", adminOnly, dashboardHandler.Stats)
	api.Get("/dashboard/export", adminOnly, dashboardHandler.Export)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		cancelWorkers()
		schedulerService.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	log.Printf("🌾 AgriStore listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
