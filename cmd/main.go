package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"shutterdesk/internal/analytics"
	"shutterdesk/internal/caching"
	"shutterdesk/internal/config"
	"shutterdesk/internal/handlers"
	"shutterdesk/internal/jobs"
	"shutterdesk/internal/jobs/background"
	"shutterdesk/internal/middleware"
	"shutterdesk/internal/repositories"
	"shutterdesk/internal/services"
	"shutterdesk/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), cfg.MinioBucket); err != nil {
		log.Printf("WARN: Failed to ensure bucket %s: %v", cfg.MinioBucket, err)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	planRepo := repositories.NewPlanRepo(pool)
	clientRepo := repositories.NewClientRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	galleryRepo := repositories.NewGalleryRepo(pool)

	// Services
	tokenSvc, err := services.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}
	entitlementSvc := services.NewEntitlementService(planRepo, clientRepo, bookingRepo)
	clientSvc := services.NewClientService(clientRepo, entitlementSvc)
	bookingSvc := services.NewBookingService(bookingRepo, clientRepo, entitlementSvc)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, clientRepo)
	paymentSvc := services.NewPaymentService(paymentRepo, invoiceRepo)
	gallerySvc := services.NewGalleryService(galleryRepo, minioSvc, cacheSvc, cfg.MinioBucket)
	notificationSvc := services.NewNotificationService(cfg.MailMode, cfg.MailEndpoint, cfg.MailFrom)
	dashboardSvc := analytics.NewDashboardService(clientRepo, bookingRepo, invoiceRepo, cacheSvc)

	// Background jobs
	downgradeSvc := jobs.NewPlanDowngradeService(pool, cfg.FreePlanID)
	overdueSvc := jobs.NewInvoiceOverdueService(invoiceRepo)
	reminderSvc := jobs.NewPaymentReminderService(paymentRepo, invoiceRepo, userRepo, notificationSvc)

	scheduler := background.NewJobScheduler(downgradeSvc, overdueSvc, reminderSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(tokenSvc, userRepo, notificationSvc, cfg.FreePlanID)
	clientHandlers := handlers.NewClientHandlers(clientSvc, dashboardSvc)
	bookingHandlers := handlers.NewBookingHandlers(bookingSvc, dashboardSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, clientRepo, userRepo, dashboardSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc, dashboardSvc)
	galleryHandlers := handlers.NewGalleryHandlers(gallerySvc)
	planHandlers := handlers.NewPlanHandlers(planRepo, userRepo)
	usageHandlers := handlers.NewUsageHandlers(entitlementSvc, dashboardSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Public routes
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/ready", healthHandlers.Readiness)
	e.GET("/v1/plans", planHandlers.List)

	auth := e.Group("/v1/auth")
	auth.Use(middleware.RateLimitMiddleware(cacheSvc, 10, time.Minute))
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	// Authenticated routes
	v1 := e.Group("/v1", middleware.AuthMiddleware(tokenSvc))

	v1.GET("/me", authHandlers.Me)
	v1.GET("/usage", usageHandlers.Usage)
	v1.GET("/dashboard", usageHandlers.Dashboard)

	v1.POST("/clients", clientHandlers.Create)
	v1.GET("/clients", clientHandlers.List)
	v1.GET("/clients/:id", clientHandlers.Get)
	v1.PUT("/clients/:id", clientHandlers.Update)
	v1.DELETE("/clients/:id", clientHandlers.Delete)

	v1.POST("/bookings", bookingHandlers.Create)
	v1.GET("/bookings", bookingHandlers.List)
	v1.GET("/bookings/:id", bookingHandlers.Get)
	v1.PUT("/bookings/:id", bookingHandlers.Update)
	v1.PATCH("/bookings/:id/status", bookingHandlers.UpdateStatus)
	v1.DELETE("/bookings/:id", bookingHandlers.Delete)

	v1.POST("/invoices", invoiceHandlers.Create)
	v1.GET("/invoices", invoiceHandlers.List)
	v1.GET("/invoices/:id", invoiceHandlers.Get)
	v1.PUT("/invoices/:id", invoiceHandlers.Update)
	v1.PATCH("/invoices/:id/status", invoiceHandlers.UpdateStatus)
	v1.DELETE("/invoices/:id", invoiceHandlers.Delete)
	v1.GET("/invoices/:id/pdf", invoiceHandlers.DownloadPDF)
	v1.POST("/invoices/:id/payments", paymentHandlers.CreateSchedule)
	v1.GET("/invoices/:id/payments", paymentHandlers.ListByInvoice)
	v1.POST("/payments/:id/paid", paymentHandlers.MarkPaid)

	v1.POST("/galleries", galleryHandlers.Create)
	v1.GET("/galleries", galleryHandlers.List)
	v1.GET("/galleries/:id", galleryHandlers.Get)
	v1.POST("/galleries/:id/publish", galleryHandlers.Publish)
	v1.DELETE("/galleries/:id", galleryHandlers.Delete)
	v1.POST("/galleries/:id/images", galleryHandlers.UploadImage)
	v1.GET("/galleries/:id/images", galleryHandlers.ListImages)
	v1.DELETE("/galleries/:id/images/:imageId", galleryHandlers.DeleteImage)

	// Admin routes
	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.POST("/plans", planHandlers.Create)
	admin.PUT("/plans/:id", planHandlers.Update)
	admin.POST("/users/:id/plan", planHandlers.AssignToUser)

	log.Printf("Starting server on port %d", cfg.Port)
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
