package main

import (
	"log"
	"os"

	"github.com/MAHIRE-7/drive-clone/internal/events"
	"github.com/MAHIRE-7/drive-clone/internal/kafka"
	"github.com/MAHIRE-7/drive-clone/pkg/redisclient"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	cache := redisclient.NewDriveCache(client)

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		kafkaBrokers = "localhost:9092"
	}
	consumer, err := kafka.NewConsumer(kafkaBrokers, "activity-feed", events.DriveActivityTopic)
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()

	feed := NewActivityFeeder(cache)

	consumer.RegisterHandler(events.FileUploaded, feed.Handle)
	consumer.RegisterHandler(events.FileDeleted, feed.Handle)
	consumer.RegisterHandler(events.FileShared, feed.Handle)
	consumer.RegisterHandler(events.FolderCreated, feed.Handle)
	consumer.RegisterHandler(events.FolderDeleted, feed.Handle)
	consumer.RegisterHandler(events.FolderShared, feed.Handle)

	log.Println("Activity consumer started. Press Ctrl+C to exit.")
	consumer.Start()
}
