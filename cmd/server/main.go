package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"medstock_backend/internal/database"
	"medstock_backend/internal/metrics"
	"medstock_backend/internal/middleware"
	"medstock_backend/internal/router"
	"medstock_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environments configure via the process env.
	_ = godotenv.Load()

	utils.InitLogger()

	// The signing secret has no default. Refuse to start without one.
	jwtSecret := utils.MustGetenv("JWT_SECRET")
	jwtTTLHours, err := utils.StrToInt64(utils.Getenv("JWT_TTL_HOURS", "24"))
	if err != nil {
		log.Fatalf("Invalid JWT_TTL_HOURS value: %v", err)
	}
	utils.InitJWT(jwtSecret, time.Duration(jwtTTLHours)*time.Hour)

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "medstock_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "medstock_password")
	dbName := utils.Getenv("DB_NAME", "medstock_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	metrics.Register()

	engine := gin.Default()

	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(utils.GinLogger())
	engine.Use(metrics.Middleware())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup all application routes
	router.Setup(engine, database.GetDB())

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
