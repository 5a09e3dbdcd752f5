package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/kafka"
)

// PaymentApplier applies external payment outcomes to bookings.
type PaymentApplier interface {
	MarkPaymentConfirmed(ctx context.Context, bookingID uuid.UUID) error
	MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID) error
}

// PaymentEventConsumer listens to the payment service's events and
// updates booking payment status accordingly.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	applier  PaymentApplier
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	applier PaymentApplier,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		applier:  applier,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentConfirmed:
		return c.handlePaymentConfirmed(ctx, cloudEvent)
	case PaymentRefunded:
		return c.handlePaymentRefunded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentConfirmed(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentConfirmedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentConfirmedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment confirmation",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if err := c.applier.MarkPaymentConfirmed(ctx, evt.BookingID); err != nil {
		// Redelivered confirmations hit the already-paid conflict.
		if domain.IsCode(err, domain.CodeConflict) {
			c.logger.Debug("payment already applied",
				zap.String("booking_id", evt.BookingID.String()),
			)
			return nil
		}
		c.logger.Error("failed to apply payment confirmation",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *PaymentEventConsumer) handlePaymentRefunded(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentRefundedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentRefundedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment refund",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if err := c.applier.MarkPaymentRefunded(ctx, evt.BookingID); err != nil {
		// Redelivered refunds hit the already-refunded conflict.
		if domain.IsCode(err, domain.CodeConflict) {
			c.logger.Debug("refund already applied",
				zap.String("booking_id", evt.BookingID.String()),
			)
			return nil
		}
		c.logger.Error("failed to apply payment refund",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
