package kafka

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MAHIRE-7/drive-clone/internal/events"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type EventHandler func(event events.ActivityEvent) error

type Consumer struct {
	consumer *kafka.Consumer
	handlers map[string][]EventHandler
	topic    string
}

// NewConsumer creates a new Kafka consumer subscribed to the given topic
func NewConsumer(bootstrapServers, groupID, topic string) (*Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": bootstrapServers,
		"group.id":          groupID,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %s", err)
	}

	err = c.SubscribeTopics([]string{topic}, nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to subscribe to topic: %w", err)
	}

	return &Consumer{
		consumer: c,
		handlers: make(map[string][]EventHandler),
		topic:    topic,
	}, nil
}

// RegisterHandler registers a handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	if c.handlers[eventType] == nil {
		c.handlers[eventType] = []EventHandler{}
	}
	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// Start consumes messages until SIGINT/SIGTERM
func (c *Consumer) Start() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)

	run := true
	for run {
		select {
		case sig := <-sigchan:
			fmt.Printf("Caught signal %v: terminating\n", sig)
			run = false
		default:
			ev, err := c.consumer.ReadMessage(100 * time.Millisecond)
			if err != nil {
				// Errors are informational and automatically handled by the consumer
				continue
			}

			var event events.ActivityEvent
			if err := json.Unmarshal(ev.Value, &event); err != nil {
				log.Printf("Failed to unmarshal event: %v\n", err)
				continue
			}

			if handlers, ok := c.handlers[event.EventType]; ok {
				for _, handler := range handlers {
					if err := handler(event); err != nil {
						log.Printf("Error handling event %s: %v\n", event.EventType, err)
					}
				}
			}
		}
	}

	c.consumer.Close()
}

// Close the consumer
func (c *Consumer) Close() {
	c.consumer.Close()
}
