// Package service publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore them without interrupting the
// request.
package service

import (
	"context"
	"encoding/json"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/film-dashboard/internal/model"
	q "github.com/iliyamo/film-dashboard/internal/queue"
)

// DefaultDialTimeout bounds connecting to the broker, handshake included.
const DefaultDialTimeout = 3 * time.Second

// Publisher sends FilmInsertedEvent messages.  It dials per message, which
// is plenty for the insert rate of a dashboard.  Publishing runs on the
// insert request, so the connection attempt is bounded by both the caller's
// context and DialTimeout.
type Publisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
	Log         *zap.Logger
	Now         func() time.Time

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewPublisher returns a Publisher for url and queue.
func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
	if queue == "" {
		queue = q.FilmInsertedQueue
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{URL: url, Queue: queue, DialTimeout: DefaultDialTimeout, Log: log, Now: time.Now}
}

// FilmInserted implements catalog.Notifier.
func (p *Publisher) FilmInserted(ctx context.Context, collection, sessionID string, f model.Film) error {
	return p.Publish(ctx, NewFilmInsertedEvent(collection, sessionID, f, p.Now()))
}

// NewFilmInsertedEvent builds the event payload for f.
func NewFilmInsertedEvent(collection, sessionID string, f model.Film, at time.Time) q.FilmInsertedEvent {
	return q.FilmInsertedEvent{
		Collection: collection,
		FilmID:     f.ID,
		Name:       f.Name,
		Genre:      f.Genre,
		Director:   f.Director,
		Company:    f.Company,
		SessionID:  sessionID,
		InsertedAt: at.UTC().Format(time.RFC3339),
	}
}

// connect dials the broker.  The socket deadline covers the AMQP handshake
// and is cleared by the client once the connection is open.
func (p *Publisher) connect(ctx context.Context) (*amqp.Connection, error) {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	deadline, _ := ctx.Deadline()

	dial := p.dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}
	return amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			conn, err := dial(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if err := conn.SetDeadline(deadline); err != nil {
				_ = conn.Close()
				return nil, err
			}
			return conn, nil
		},
	})
}

// Publish sends event to the queue as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, event q.FilmInsertedEvent) error {
	conn, err := p.connect(ctx)
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	p.Log.Debug("rabbitmq: film event published", zap.String("film_id", event.FilmID))
	return nil
}
