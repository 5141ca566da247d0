package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/model"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/messaging"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	// StaleAfter reclaims events left in processing by a crashed worker.
	StaleAfter time.Duration
	Channel    string
}

// OutboxProcessor publishes booking events committed to the outbox table.
// Delivery is at least once; consumers dedupe on the message id.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *zerolog.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	// Config validation instead of defaults
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}
	if config.Channel == "" {
		panic("Channel must be set")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info().Str("channel", p.config.Channel).Msg("Starting outbox processor")

	for {
		if _, err := p.ProcessBatch(ctx); err != nil {
			p.logger.Error().Err(err).Msg("Failed to process events")
		}

		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Shutting down outbox processor")
			return
		case <-ticker.C:
		}
	}
}

// ProcessBatch claims one batch of due events and publishes them. It returns
// how many were published.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) (int, error) {
	if p.metrics != nil {
		timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
		defer timer.ObserveDuration()
	}

	events, err := p.repo.ClaimPending(ctx, p.config.BatchSize, p.config.StaleAfter)
	p.metrics.DatabaseOperation("claim_outbox_events", err)
	if err != nil {
		return 0, fmt.Errorf("failed to claim pending events: %w", err)
	}

	published := 0
	for _, event := range events {
		if ctx.Err() != nil {
			// Unpublished claims are picked up again once StaleAfter passes.
			return published, ctx.Err()
		}
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error().Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("Failed to process event")
			continue
		}
		published++
	}

	return published, nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := p.broker.Publish(ctx, p.config.Channel, messaging.Message{
		ID:          event.ID,
		Type:        event.EventType,
		AggregateID: event.AggregateID,
		Payload:     event.Payload,
		OccurredAt:  event.CreatedAt,
	})
	if err != nil {
		return p.handleFailure(ctx, event, err)
	}

	if p.metrics != nil {
		p.metrics.OutboxEventsProcessed.Inc()
	}
	if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
		p.metrics.DatabaseOperation("mark_outbox_processed", err)
		return err
	}
	return nil
}

// handleFailure schedules a retry with exponential backoff, or marks the
// event failed once RetryAttempts publishes have failed.
func (p *OutboxProcessor) handleFailure(ctx context.Context, event *model.OutboxEvent, publishErr error) error {
	attempts := event.RetryCount + 1
	errMsg := publishErr.Error()

	if attempts >= p.config.RetryAttempts {
		if p.metrics != nil {
			p.metrics.OutboxEventsFailed.Inc()
		}
		if err := p.repo.MarkFailed(ctx, event.ID, errMsg); err != nil {
			p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("Failed to update event status")
		}
		return fmt.Errorf("giving up after %d attempts: %w", attempts, publishErr)
	}

	if p.metrics != nil {
		p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
	}
	retryAt := p.now().Add(backoff(p.config.RetryDelay, event.RetryCount))
	if err := p.repo.MarkRetry(ctx, event.ID, errMsg, retryAt); err != nil {
		p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("Failed to update event status")
	}
	return fmt.Errorf("attempt %d failed, retry at %s: %w", attempts, retryAt.Format(time.RFC3339), publishErr)
}

func backoff(base time.Duration, retries int) time.Duration {
	if retries > 10 {
		retries = 10
	}
	return base << uint(retries)
}
