package main

import (
	"log"

	_ "rentalhub/api/swagger" // swagger docs
	"rentalhub/internal/config"
	"rentalhub/internal/database"
	"rentalhub/internal/handler"
	"rentalhub/internal/middleware"
	"rentalhub/internal/notify"
	"rentalhub/internal/repository"
	"rentalhub/internal/scheduler"
	"rentalhub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Rental Hub API
// @version         1.0
// @description     Rental reservation and order lifecycle API.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	hub := notify.NewHub()
	go hub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	quotationCfg := service.QuotationConfig{
		ApprovalThreshold: cfg.ApprovalThreshold,
		DefaultCGSTRate:   cfg.DefaultCGSTRate,
		DefaultSGSTRate:   cfg.DefaultSGSTRate,
		DefaultIGSTRate:   cfg.DefaultIGSTRate,
		VendorState:       cfg.VendorState,
	}

	userService := service.NewUserService(userRepo)
	reservationService := service.NewReservationService(productRepo, reservationRepo)
	catalogService := service.NewCatalogService(productRepo, policyRepo, reservationService)
	quotationService := service.NewQuotationService(quotationCfg, txManager, quotationRepo, orderRepo,
		productRepo, policyRepo, approvalRepo, invoiceRepo, userRepo, auditRepo, sequenceRepo,
		reservationService, hub)
	orderService := service.NewOrderService(quotationCfg, txManager, orderRepo, productRepo,
		policyRepo, invoiceRepo, userRepo, auditRepo, sequenceRepo, reservationService, hub)
	approvalService := service.NewApprovalService(txManager, approvalRepo, quotationRepo, orderRepo, auditRepo)
	billingService := service.NewBillingService(txManager, invoiceRepo, orderRepo, auditRepo, sequenceRepo, hub)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(userService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	orderHandler := handler.NewOrderHandler(orderService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	billingHandler := handler.NewBillingHandler(billingService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	// Daily pickup/return reminder sweep
	reminders := scheduler.NewReminderScheduler(orderRepo, hub)
	if err := reminders.Start(); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer reminders.Stop()

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		notify.ServeWs(hub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	quotationHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	approvalHandler.RegisterRoutes(router.Group(""))
	billingHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
