package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Jignesh1691/Projectsetu.1691-sub001/api/swagger" // swagger docs
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/database"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/handler"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/middleware"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/repository"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/websocket"
)

// @title           ProjectSetu API
// @version         1.0
// @description     Construction project management backend with a submit/approve moderation workflow on every record.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "projectsetu"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTxManager(db)

	// Approval gates: one state machine, instantiated per entity kind. The
	// audit repo is the gate's audit sink, the hub its event channel.
	policy := approval.DefaultPolicy()
	txGate := approval.NewGate[model.Transaction, *model.Transaction](db, policy, auditRepo, wsHub)
	recGate := approval.NewGate[model.Recordable, *model.Recordable](db, policy, auditRepo, wsHub)
	taskGate := approval.NewGate[model.Task, *model.Task](db, policy, auditRepo, wsHub)
	docGate := approval.NewGate[model.Document, *model.Document](db, policy, auditRepo, wsHub)
	photoGate := approval.NewGate[model.Photo, *model.Photo](db, policy, auditRepo, wsHub)
	hajariGate := approval.NewGate[model.Hajari, *model.Hajari](db, policy, auditRepo, wsHub)
	materialGate := approval.NewGate[model.Material, *model.Material](db, policy, auditRepo, wsHub)
	materialEntryGate := approval.NewGate[model.MaterialLedgerEntry, *model.MaterialLedgerEntry](db, policy, auditRepo, wsHub)
	ledgerGate := approval.NewGate[model.Ledger, *model.Ledger](db, policy, auditRepo, wsHub)
	journalGate := approval.NewGate[model.JournalEntry, *model.JournalEntry](db, policy, auditRepo, wsHub)

	registry := approval.Registry{}
	registry.Add(txGate)
	registry.Add(recGate)
	registry.Add(taskGate)
	registry.Add(docGate)
	registry.Add(photoGate)
	registry.Add(hajariGate)
	registry.Add(materialGate)
	registry.Add(materialEntryGate)
	registry.Add(ledgerGate)
	registry.Add(journalGate)

	// Services
	userService := service.NewUserService(db, userRepo, invitationRepo, auditRepo, txManager)
	projectService := service.NewProjectService(db, userRepo, auditRepo)
	transactionService := service.NewTransactionService(db, txGate, projectService)
	recordableService := service.NewRecordableService(db, recGate, projectService)
	taskService := service.NewTaskService(db, taskGate, projectService)
	documentService := service.NewDocumentService(db, docGate, photoGate, projectService)
	hajariService := service.NewHajariService(db, hajariGate, projectService)
	materialService := service.NewMaterialService(db, materialGate, materialEntryGate, projectService)
	ledgerService := service.NewLedgerService(db, ledgerGate, journalGate, projectService)
	approvalService := service.NewApprovalService(registry)
	auditService := service.NewAuditService(auditRepo)
	dashboardService := service.NewDashboardService(db, projectService)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService, dashboardService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	recordableHandler := handler.NewRecordableHandler(recordableService)
	taskHandler := handler.NewTaskHandler(taskService)
	documentHandler := handler.NewDocumentHandler(documentService)
	hajariHandler := handler.NewHajariHandler(hajariService)
	materialHandler := handler.NewMaterialHandler(materialService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Public auth routes
	userHandler.RegisterPublicRoutes(router.Group(""))

	// Authenticated API
	api := router.Group("/api", middleware.RequireAuth())
	userHandler.RegisterRoutes(api)
	projectHandler.RegisterRoutes(api)
	transactionHandler.RegisterRoutes(api)
	recordableHandler.RegisterRoutes(api)
	taskHandler.RegisterRoutes(api)
	documentHandler.RegisterRoutes(api)
	hajariHandler.RegisterRoutes(api)
	materialHandler.RegisterRoutes(api)
	ledgerHandler.RegisterRoutes(api)
	approvalHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
