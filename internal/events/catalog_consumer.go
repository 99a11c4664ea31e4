// Package events consumes catalog change events from Kafka and invalidates
// the in-memory pricing snapshot.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Catalog event types published by the admin service.
const (
	CatalogZoneChanged    = "catalog.zone.changed"
	CatalogRouteChanged   = "catalog.route.changed"
	CatalogPricingChanged = "catalog.pricing.changed"
	CatalogFleetChanged   = "catalog.fleet.changed"
	CatalogExtraChanged   = "catalog.extra.changed"
)

// CatalogEvent is the envelope published on the catalog topic.
type CatalogEvent struct {
	Type       string          `json:"type"`
	EntityID   int64           `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// SnapshotInvalidator discards the cached catalog snapshot.
type SnapshotInvalidator interface {
	Invalidate()
}

// CatalogEventConsumer listens to catalog change events and invalidates the
// snapshot cache so the next quote reloads the catalog.
type CatalogEventConsumer struct {
	reader *kafkago.Reader
	cache  SnapshotInvalidator
	logger *zap.Logger
}

// NewCatalogEventConsumer creates a new CatalogEventConsumer.
func NewCatalogEventConsumer(
	brokers []string,
	groupID string,
	topic string,
	cache SnapshotInvalidator,
	logger *zap.Logger,
) *CatalogEventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.LastOffset,
	})
	return &CatalogEventConsumer{
		reader: reader,
		cache:  cache,
		logger: logger,
	}
}

// Start begins consuming catalog events. This blocks until the context is
// cancelled.
func (c *CatalogEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Error("failed to read catalog event", zap.Error(err))
			continue
		}
		c.handleMessage(msg)
	}
}

// Close closes the underlying Kafka reader.
func (c *CatalogEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *CatalogEventConsumer) handleMessage(msg kafkago.Message) {
	var event CatalogEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// Don't retry malformed messages.
		c.logger.Error("failed to parse catalog event",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return
	}

	switch event.Type {
	case CatalogZoneChanged, CatalogRouteChanged, CatalogPricingChanged,
		CatalogFleetChanged, CatalogExtraChanged:
		c.logger.Info("catalog changed, invalidating snapshot",
			zap.String("type", event.Type),
			zap.Int64("entity_id", event.EntityID),
		)
		c.cache.Invalidate()
	default:
		c.logger.Debug("ignoring unhandled catalog event type",
			zap.String("type", event.Type),
		)
	}
}
