package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"food-ordering/internal/domain"
)

// Consumer keeps the daily popularity ranking up to date from order events.
type Consumer struct {
	Reader MessageReader
	Store  PopularityStore
	// RetryDelay is the pause after a failed read.
	RetryDelay time.Duration
}

const defaultRetryDelay = time.Second

func NewConsumer(reader MessageReader, store PopularityStore) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		RetryDelay: defaultRetryDelay,
	}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("[consumer] starting popularity consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("[consumer] stopped")
				return
			}
			log.Printf("[consumer] error reading message: %v", err)
			select {
			case <-ctx.Done():
				log.Println("[consumer] stopped")
				return
			case <-time.After(c.RetryDelay):
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("[consumer] error unmarshaling message at offset %d: %v", message.Offset, err)
			continue
		}

		c.ProcessEvent(ctx, event)
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) {
	if event.Type != domain.EventOrderPlaced {
		log.Printf("[consumer] skipping event of type %q", event.Type)
		return
	}

	day := event.Timestamp
	if day.IsZero() {
		day = time.Now()
	}
	day = day.UTC()

	for _, line := range event.Lines {
		if line.DishID == nil || line.Count <= 0 {
			continue
		}
		if err := c.Store.IncrementPopularity(ctx, day, *line.DishID, line.Count); err != nil {
			log.Printf("[consumer] error updating popularity for dish %d: %v", *line.DishID, err)
			return
		}
	}

	log.Printf("[consumer] processed order %d", event.OrderID)
}
