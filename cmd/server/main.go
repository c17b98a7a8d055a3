package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/handlers"
	authMiddleware "github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/middleware"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis cache
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	cache, err := services.NewRedisCache(redisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.Close()

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = authMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Initialize services and handlers
	accountService := services.NewAccountService(db)
	historyFetcher := services.NewHistoryFetcher(db)

	authHandler := handlers.NewAuthHandler(authClient)
	dashboardHandler := handlers.NewDashboardHandler(db, cache)
	patientHandler := handlers.NewPatientHandler(db)
	planHandler := handlers.NewPlanHandler(db, accountService)
	accountHandler := handlers.NewAccountHandler(db, accountService)
	reportHandler := handlers.NewReportHandler(db, historyFetcher, cache)
	staffHandler := handlers.NewStaffHandler(db)

	// Public routes
	e.GET("/auth/config", authHandler.LoginConfig)
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)

	// Protected routes: any staff member
	protected := e.Group("/api")
	protected.Use(authMiddleware.RequireAuth(authClient, db))

	protected.GET("/dashboard", dashboardHandler.Dashboard)

	protected.GET("/patients", patientHandler.ListPatients)
	protected.GET("/patients/:id", patientHandler.GetPatient)
	protected.POST("/patients", patientHandler.StorePatient)
	protected.PUT("/patients/:id", patientHandler.UpdatePatient)

	protected.GET("/plans", planHandler.ListPlans)
	protected.GET("/plans/:id", planHandler.GetPlan)
	protected.POST("/plans", planHandler.StorePlan)
	protected.PUT("/plans/:id/status", planHandler.UpdatePlanStatus)

	// Accounting routes: accounts team and admins only
	accounting := protected.Group("")
	accounting.Use(authMiddleware.RequireRole(models.StaffRoleAccounts, models.StaffRoleAdmin))

	accounting.GET("/accounts", accountHandler.ListAccounts)
	accounting.GET("/accounts/:id", accountHandler.GetAccount)
	accounting.POST("/accounts/:id/payments", accountHandler.RecordPayment)
	accounting.PUT("/accounts/:id/due-date", accountHandler.UpdateDueDate)
	accounting.POST("/accounts/:id/calls", accountHandler.AddCall)

	accounting.GET("/reports/accounts", reportHandler.GetReport)
	accounting.GET("/reports/accounts/export/html", reportHandler.ExportHTML)
	accounting.GET("/reports/accounts/export/csv", reportHandler.ExportCSV)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(authMiddleware.RequireRole(models.StaffRoleAdmin))

	admin.GET("/staff", staffHandler.ListStaff)
	admin.POST("/staff", staffHandler.StoreStaff)
	admin.PUT("/staff/:id", staffHandler.UpdateStaff)
	admin.DELETE("/staff/:id", staffHandler.DeleteStaff)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
