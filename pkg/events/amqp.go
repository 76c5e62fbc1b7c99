package events

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// Channel is the subset of an AMQP channel used for publishing.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type amqpPublisher struct {
	conn       io.Closer
	channel    Channel
	exchange   string
	routingKey string
}

func DialAMQP(settings Settings) (Publisher, error) {
	conn, err := amqp091.Dial(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewAMQPPublisher(conn, channel, settings)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// NewAMQPPublisher declares the exchange on an open channel.
func NewAMQPPublisher(conn io.Closer, channel Channel, settings Settings) (Publisher, error) {
	err := channel.ExchangeDeclare(
		settings.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &amqpPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   settings.Exchange,
		routingKey: settings.RoutingKey,
	}, nil
}

func (p *amqpPublisher) PublishAnalysisCompleted(ctx context.Context, msg AnalysisCompleted) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.RecordID,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("record_id", msg.RecordID).
		Str("exchange", p.exchange).
		Str("routing_key", p.routingKey).
		Msg("Published analysis completed event")
	return nil
}

func (p *amqpPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if connErr := p.conn.Close(); err == nil {
			err = connErr
		}
	}
	return err
}
