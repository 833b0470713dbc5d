package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/MAHIRE-7/drive-clone/internal/database"
	"github.com/MAHIRE-7/drive-clone/internal/handlers"
	"github.com/MAHIRE-7/drive-clone/internal/kafka"
	"github.com/MAHIRE-7/drive-clone/internal/middleware"
	"github.com/MAHIRE-7/drive-clone/internal/storage"
	"github.com/MAHIRE-7/drive-clone/pkg/logger"
	"github.com/MAHIRE-7/drive-clone/pkg/redisclient"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.InitLogger()

	// Initialize database
	db, err := database.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize blob store
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	store, err := storage.NewDiskStore(uploadDir)
	if err != nil {
		log.Fatal("Failed to initialize upload dir:", err)
	}

	// Redis backs starred/recent/activity state; the API runs without it.
	var cache *redisclient.DriveCache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		cache = redisclient.NewDriveCache(client)
	} else {
		log.Println("REDIS_ADDR not set, starred/recent/activity endpoints disabled")
	}

	// Kafka producer for the activity feed; optional as well.
	var producer *kafka.Producer
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		producer = kafka.NewProducer(strings.Split(kafkaBrokers, ","))
		defer producer.Close()
	} else {
		log.Println("KAFKA_BROKERS not set, activity events disabled")
	}

	// Setup Gin router
	r := gin.Default()

	middleware.SetupPrometheus(r)
	r.Use(middleware.LoggerMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db)
	fileHandler := handlers.NewFileHandler(db, store, cache, producer)
	folderHandler := handlers.NewFolderHandler(db, producer)
	activityHandler := handlers.NewActivityHandler(cache)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Auth routes
	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(db))
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		// File routes
		protected.POST("/files/upload", fileHandler.UploadFile)
		protected.GET("/files", fileHandler.GetFiles)
		protected.GET("/files/shared", fileHandler.GetSharedFiles)
		protected.GET("/files/starred", fileHandler.GetStarredFiles)
		protected.GET("/files/recent", fileHandler.GetRecentFiles)
		protected.GET("/files/:id/download", fileHandler.DownloadFile)
		protected.DELETE("/files/:id", fileHandler.DeleteFile)
		protected.POST("/files/:id/share", fileHandler.ShareFile)
		protected.POST("/files/:id/star", fileHandler.StarFile)
		protected.DELETE("/files/:id/star", fileHandler.UnstarFile)

		// Folder routes
		protected.POST("/folders", folderHandler.CreateFolder)
		protected.GET("/folders", folderHandler.GetFolders)
		protected.GET("/folders/shared", folderHandler.GetSharedFolders)
		protected.DELETE("/folders/:id", folderHandler.DeleteFolder)
		protected.POST("/folders/:id/share", folderHandler.ShareFolder)

		// Activity feed
		protected.GET("/activities", activityHandler.GetActivities)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
