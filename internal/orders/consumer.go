package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"
)

// CartClearer is the slice of the cart service the consumer needs.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

// Consumer empties a user's cart once their checkout event lands on the
// outbox topic.
type Consumer struct {
	carts  CartClearer
	reader *kafka.Reader
}

func NewConsumer(carts CartClearer, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    outboxTopic,
		GroupID:  "storefront-cart-clearing",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{carts: carts, reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		fmt.Printf("error closing kafka reader: %v\n", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	var payload map[string]interface{}
	if errUnmarshal := json.Unmarshal(m.Value, &payload); errUnmarshal != nil {
		log.Printf("error parsing message: %v", errUnmarshal)
		return
	}

	userID, ok := payload["user_id"].(string)
	if !ok || userID == "" {
		log.Printf("missing or invalid user_id in checkout event")
		return
	}

	if errClear := c.carts.Clear(ctx, userID); errClear != nil {
		log.Printf("failed to clear cart for user %s: %v", userID, errClear)
	}
}
