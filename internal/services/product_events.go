package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"productcrud/internal/models"
	"productcrud/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Publisher sends a message body to an exchange. *rabbitmq.Client implements it.
type Publisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// publish sends a product event for a committed change. Failures are logged
// and never reach the caller.
func (s *ProductService) publish(eventType string, productID uint, products ...models.ProductDTO) {
	if s.publisher == nil {
		return
	}

	event := models.ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		Products:   products,
		OccurredAt: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	if err := s.publisher.Publish(rabbitmq.ProductExchange, eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event %s: %v", eventType, event.ID, err)
		return
	}
	log.Printf("Published %s event %s", eventType, event.ID)
}

// HandleProductEvent decodes and logs a product event delivered by RabbitMQ.
func HandleProductEvent(msg amqp.Delivery) error {
	var event models.ProductEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode product event: %w", err)
	}
	if event.Type == "" {
		return fmt.Errorf("product event %s has no type", event.ID)
	}

	log.Printf("Received %s event %s (product %d, %d products)", event.Type, event.ID, event.ProductID, len(event.Products))
	return nil
}
