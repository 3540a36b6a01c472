package main

import (
	"log"
	"os"

	"github.com/JKozubekINF1/dart-counter/db"
	"github.com/JKozubekINF1/dart-counter/handlers"
	"github.com/JKozubekINF1/dart-counter/models"
	"github.com/gin-gonic/gin"
)

func main() {
	// Create a new Gin router
	router := gin.Default()

	// Open the store; a failed open degrades to in-memory, never fatal
	store := db.NewStore(envOr("DARTS_DB", "darts.db"))

	// The single active match session
	session := models.NewSession(store)

	matchHandler := handlers.NewMatchHandler(session)
	userHandler := handlers.NewUserHandler(store)
	statsHandler := handlers.NewStatsHandler(store)

	// Serve the scoreboard UI
	router.Static("/static", "./static")
	router.StaticFile("/favicon.ico", "./static/favicon.ico")
	router.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	// WebSocket endpoint for match commands and state broadcasts
	router.GET("/ws", matchHandler.WebSocketHandler)

	// API Routes
	api := router.Group("/api")
	{
		api.POST("/users", userHandler.CreateUser)
		api.GET("/users", userHandler.ListUsers)
		api.DELETE("/users/:id", userHandler.DeleteUser)

		api.GET("/users/:id/stats", statsHandler.GetUserStats)
		api.GET("/matches", statsHandler.ListMatches)
	}

	// Start the server
	addr := envOr("DARTS_ADDR", ":3100")
	log.Printf("Starting dart counter server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
