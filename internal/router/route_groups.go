package router

import (
	"medstock_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes sets up the unauthenticated auth routes.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterHospital)
	group.POST("/login", authHandler.LoginHospital)
}

// SetupAuthenticatedAuthRoutes sets up the auth routes that require a token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentHospital)
}

// SetupPublicHospitalRoutes sets up the public hospital directory routes.
func SetupPublicHospitalRoutes(apiGroup *gin.RouterGroup, hospitalHandler *handlers.HospitalHandler) {
	hospitalRoutes := apiGroup.Group("/hospitals")
	{
		hospitalRoutes.GET("", hospitalHandler.GetHospitals)
		hospitalRoutes.GET("/:id", hospitalHandler.GetHospitalByID)
	}
}

// SetupHospitalRoutes sets up the authenticated hospital routes.
// Writes and stats are restricted to the caller's own hospital.
func SetupHospitalRoutes(authenticatedGroup *gin.RouterGroup, hospitalHandler *handlers.HospitalHandler) {
	hospitalRoutes := authenticatedGroup.Group("/hospitals")
	{
		hospitalRoutes.PUT("/:id", hospitalHandler.UpdateHospital)
		hospitalRoutes.DELETE("/:id", hospitalHandler.DeleteHospital)
		hospitalRoutes.GET("/:id/stats", hospitalHandler.GetHospitalStats)
	}
}

// SetupInventoryRoutes sets up the inventory routes.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	{
		inventoryRoutes.POST("", inventoryHandler.CreateItem)
		inventoryRoutes.GET("", inventoryHandler.GetItems)
		inventoryRoutes.GET("/:id", inventoryHandler.GetItemByID)
		inventoryRoutes.PUT("/:id", inventoryHandler.UpdateItem)
		inventoryRoutes.DELETE("/:id", inventoryHandler.DeleteItem)
	}
}

// SetupTransactionRoutes sets up the transaction routes.
func SetupTransactionRoutes(authenticatedGroup *gin.RouterGroup, transactionHandler *handlers.TransactionHandler) {
	transactionRoutes := authenticatedGroup.Group("/transactions")
	{
		transactionRoutes.POST("", transactionHandler.CreateTransaction)
		transactionRoutes.GET("", transactionHandler.GetTransactions)
		transactionRoutes.GET("/:id", transactionHandler.GetTransactionByID)
		transactionRoutes.DELETE("/:id", transactionHandler.DeleteTransaction)
	}
}
