package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/webshop-labs/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/webshop-labs/storefront/internal/dal/rabbitmq"
	"github.com/webshop-labs/storefront/internal/service/models/orderevent"
	"github.com/webshop-labs/storefront/internal/service/models/outbox"
)

const (
	queueName      = "storefront.orders.audit"
	publishTimeout = 30 * time.Second
	maxRetries     = 5
)

// AuditRabbitMQRepository publishes order lifecycle events to RabbitMQ.
// Events that fail to publish are written to the outbox table and retried
// by the outbox worker.
type AuditRabbitMQRepository struct {
	client     *rabbitmq.Client
	outboxRepo ioutboxrepo.IOutboxRepository
	queue      amqp.Queue
}

func NewAuditRabbitMQRepository(client *rabbitmq.Client, outboxRepo ioutboxrepo.IOutboxRepository) *AuditRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		client:     client,
		outboxRepo: outboxRepo,
		queue:      queue,
	}
}

// Publish sends the given events to the audit queue. A failed publish is
// stored in the outbox instead of being surfaced to the caller; auditing
// must never fail the order operation itself.
func (r *AuditRabbitMQRepository) Publish(ctx context.Context, events []orderevent.OrderEvent) error {
	publishCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	g, publishCtx := errgroup.WithContext(publishCtx)
	g.SetLimit(3)

	for _, event := range events {
		event := event
		g.Go(func() error {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}

			err = r.client.Channel().Publish(
				"",
				r.queue.Name,
				false,
				false,
				amqp.Publishing{
					ContentType: "application/json",
					Body:        payload,
				},
			)
			if err != nil {
				slog.Warn("Failed to publish audit event, storing in outbox",
					"order_id", event.OrderID,
					"type", event.Type,
					"error", err,
				)

				return r.storeInOutbox(publishCtx, payload, err)
			}

			return nil
		})
	}

	return g.Wait()
}

func (r *AuditRabbitMQRepository) storeInOutbox(ctx context.Context, payload []byte, publishErr error) error {
	now := time.Now()

	return r.outboxRepo.Insert(ctx, outbox.OutboxMessage{
		QueueName:   r.queue.Name,
		RoutingKey:  r.queue.Name,
		Payload:     payload,
		ContentType: "application/json",
		RetryCount:  0,
		MaxRetries:  maxRetries,
		LastError:   publishErr.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}
