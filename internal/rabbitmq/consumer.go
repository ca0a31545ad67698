package rabbitmq

import (
	"context"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventHandler processes one delivery identified by its routing key. A nil
// error acks the delivery; an error nacks it without requeue (the exchange
// semantics are at-least-once, handlers tolerate replays where they must).
type EventHandler interface {
	HandleEvent(ctx context.Context, routingKey string, body []byte) error
}

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewConsumer declares a durable queue bound to the given routing keys on the
// exchange and returns a consumer ready to start.
func NewConsumer(amqpURL, exchangeName, queueName string, routingKeys []string) (*Consumer, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(queueName, key, exchangeName, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return &Consumer{conn: conn, channel: ch, queue: queueName}, nil
}

// Start consumes deliveries until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler EventHandler) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := handler.HandleEvent(ctx, d.RoutingKey, d.Body); err != nil {
					log.Printf("warning: failed to handle %s: %v", d.RoutingKey, err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	return nil
}
