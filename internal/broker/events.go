package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"library-service/internal/models"
	"library-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func bookKey(bookID int64) string {
	return fmt.Sprintf("book-%d", bookID)
}

// NewBaseEvent stamps a fresh event ID and timestamp
func NewBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// PublishInventoryChanged publishes the stock change of a lifecycle action
func (ep *EventPublisher) PublishInventoryChanged(ctx context.Context, event *models.InventoryChangedEvent) error {
	return ep.producer.PublishEvent(ctx, bookKey(event.BookID), event)
}

// PublishReviewRecorded publishes a review save
func (ep *EventPublisher) PublishReviewRecorded(ctx context.Context, event *models.ReviewRecordedEvent) error {
	return ep.producer.PublishEvent(ctx, bookKey(event.BookID), event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onInventoryChanged func(context.Context, *models.InventoryChangedEvent) error
	onReviewRecorded   func(context.Context, *models.ReviewRecordedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnInventoryChanged registers a handler for every BOOK_* event
func (eh *EventHandler) OnInventoryChanged(handler func(context.Context, *models.InventoryChangedEvent) error) {
	eh.onInventoryChanged = handler
}

// OnReviewRecorded registers a handler for REVIEW_RECORDED events
func (eh *EventHandler) OnReviewRecorded(handler func(context.Context, *models.ReviewRecordedEvent) error) {
	eh.onReviewRecorded = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeBookBorrowed, models.EventTypeBookRented,
		models.EventTypeBookPurchased, models.EventTypeBookReturned:
		if eh.onInventoryChanged != nil {
			var event models.InventoryChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal %s event: %w", baseEvent.EventType, err)
			}
			return eh.onInventoryChanged(ctx, &event)
		}

	case models.EventTypeReviewRecorded:
		if eh.onReviewRecorded != nil {
			var event models.ReviewRecordedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ReviewRecorded event: %w", err)
			}
			return eh.onReviewRecorded(ctx, &event)
		}

	default:
		logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
