package router

import (
	"database/sql"

	"medstock_backend/internal/handlers"
	"medstock_backend/internal/middleware"
	"medstock_backend/internal/repositories"
	"medstock_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	hospitalRepo := repositories.NewHospitalRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	txRunner := repositories.NewTxRunner(db)

	// Initialize Services
	authService := services.NewAuthService(hospitalRepo, db)
	hospitalService := services.NewHospitalService(hospitalRepo, db)
	inventoryService := services.NewInventoryService(inventoryRepo, db)
	transactionService := services.NewTransactionService(transactionRepo, inventoryRepo, txRunner)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	hospitalHandler := handlers.NewHospitalHandler(hospitalService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	apiV1 := engine.Group("/api/v1")

	// Public routes: registration, login, and the hospital directory.
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)
	SetupPublicHospitalRoutes(apiV1, hospitalHandler)

	// Authenticated routes: everything scoped by the token's hospital identity.
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupHospitalRoutes(authenticated, hospitalHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupTransactionRoutes(authenticated, transactionHandler)
	}
}
