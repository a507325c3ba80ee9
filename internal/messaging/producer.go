package messaging

import (
	"encoding/json"
	"log/slog"

	"feedback-service/internal/events"

	"github.com/nats-io/nats.go"
)

// Producer publishes domain events to a NATS subject.
type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewProducer(url string, subject string, logger *slog.Logger) (*Producer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
	}, nil
}

func (p *Producer) Publish(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", "error", err)
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Error("failed to publish event to NATS", "error", err)
		return err
	}

	p.logger.Info("event published to NATS", "subject", p.subject, "type", event.Type)
	return nil
}

func (p *Producer) Close() error {
	p.conn.Close()
	return nil
}
