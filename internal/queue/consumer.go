// Package queue contains the background consumer that listens to the
// film.inserted queue and appends one line per event to a log file.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrMalformedEvent marks deliveries whose body is not a FilmInsertedEvent.
var ErrMalformedEvent = errors.New("malformed film event")

// ConsumerConfig configures StartFilmConsumer.
type ConsumerConfig struct {
	URL      string
	Queue    string
	Prefetch int
}

// StartFilmConsumer connects to RabbitMQ, declares the queue (durable) and
// writes every event to out.  It reconnects with exponential back-off and
// returns only when ctx is cancelled.  Malformed messages are rejected
// without requeue so they cannot loop.
func StartFilmConsumer(ctx context.Context, cfg ConsumerConfig, out io.Writer, log *zap.Logger) error {
	if cfg.Queue == "" {
		cfg.Queue = FilmInsertedQueue
	}
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn("film-consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, cfg, out, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("film-consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, out io.Writer, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if cfg.Prefetch > 0 {
		if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
			log.Warn("film-consumer: set QoS failed", zap.Error(err))
		}
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info("film-consumer: consuming", zap.String("queue", cfg.Queue))

	for d := range msgs {
		if err := HandleMessage(d.Body, out); err != nil {
			log.Error("film-consumer: handle message failed", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleMessage decodes one delivery body and writes its log line to out.
func HandleMessage(body []byte, out io.Writer) error {
	var ev FilmInsertedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.Name == "" {
		return fmt.Errorf("%w: missing name", ErrMalformedEvent)
	}
	line := fmt.Sprintf("[%s] Film inserted | collection=%s | id=%s | name=%q | genre=%q | director=%q | company=%q | session=%s\n",
		ev.InsertedAt, ev.Collection, ev.FilmID, ev.Name, ev.Genre, ev.Director, ev.Company, ev.SessionID)
	if _, err := io.WriteString(out, line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
