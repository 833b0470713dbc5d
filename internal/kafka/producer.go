package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/MAHIRE-7/drive-clone/internal/events"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	activityWriter *kafka.Writer
}

// NewProducer creates a Kafka producer for the drive.activity topic
func NewProducer(brokers []string) *Producer {
	activityWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.DriveActivityTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{
		activityWriter: activityWriter,
	}
}

// PublishActivityEvent publishes an activity event keyed by the acting user,
// so one user's feed stays ordered within a partition.
func (p *Producer) PublishActivityEvent(ctx context.Context, event *events.ActivityEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal activity event: %v", err)
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.ActorID),
		Value: value,
		Time:  event.Timestamp,
	}

	err = p.activityWriter.WriteMessages(ctx, message)
	if err != nil {
		log.Printf("Failed to publish activity event: %v", err)
		return err
	}

	log.Printf("Published activity event: %s for %s %s", event.EventType, event.AssetType, event.AssetID)
	return nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	if p.activityWriter != nil {
		return p.activityWriter.Close()
	}
	return nil
}
