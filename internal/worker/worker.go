package worker

import (
	"context"

	"library-service/internal/broker"
	"library-service/internal/service"
	"library-service/internal/util"

	"go.uber.org/zap"
)

// AvailabilityWorker projects library events into the availability cache
type AvailabilityWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewAvailabilityWorker creates a new availability worker
func NewAvailabilityWorker(consumer *broker.Consumer, availability *service.AvailabilityService) *AvailabilityWorker {
	return &AvailabilityWorker{
		consumer:     consumer,
		eventHandler: NewEventHandler(availability),
		logger:       util.GetLogger(),
	}
}

// NewEventHandler routes inventory and review events to the availability projection
func NewEventHandler(availability *service.AvailabilityService) *broker.EventHandler {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnInventoryChanged(availability.Project)
	eventHandler.OnReviewRecorded(availability.ProjectReview)
	return eventHandler
}

// Start starts the worker
func (w *AvailabilityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting availability worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AvailabilityWorker) Stop() error {
	w.logger.Info("Stopping availability worker")
	return w.consumer.Close()
}
