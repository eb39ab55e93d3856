// Package notify publishes recorded gifts to an AMQP exchange so other
// systems (receipts, CRM sync) can react to them.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Config locates the broker and exchange.
type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// Publisher sends gift messages to a durable topic exchange.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	logger  *slog.Logger
}

// Dial connects to the broker and declares the exchange.
func Dial(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dialing amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	p := &Publisher{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
		logger:  logger.With("component", "notify"),
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,
	)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", cfg.Exchange, err)
	}
	return p, nil
}

// Publish sends one message.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	body, err := msg.ToJSON()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.cfg.Exchange,
		p.cfg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.SentAt,
			MessageId:    msg.Gift.ID,
			Type:         msg.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing gift %s: %w", msg.Gift.ID, err)
	}
	p.logger.Debug("published gift", "id", msg.Gift.ID, "exchange", p.cfg.Exchange)
	return nil
}

// Observer adapts the publisher to intake. totals, when non-nil, supplies
// the ledger summary attached to each message. Failures are logged.
func (p *Publisher) Observer(totals func() model.Metrics) intake.Observer {
	return func(r model.DonationRecord) {
		var m *model.Metrics
		if totals != nil {
			t := totals()
			m = &t
		}
		msg := NewGiftMessage(r, m, time.Now())
		if err := p.Publish(context.Background(), msg); err != nil {
			p.logger.Warn("unable to publish gift", "id", r.ID, "err", err)
		}
	}
}

// Close shuts the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
