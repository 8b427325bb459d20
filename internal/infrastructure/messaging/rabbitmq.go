// Package messaging publica los eventos del flujo de facturación en RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher interfaz implementada por los publicadores de eventos.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	Close()
}

// EventProducer conexión y canal AMQP sobre un exchange topic durable.
type EventProducer struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewEventProducer conecta con el broker y declara el exchange.
func NewEventProducer(amqpURL, exchange string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if exchange == "" {
		return nil, errors.New("exchange AMQP vacío")
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("conectar AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal AMQP: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	return &EventProducer{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish serializa body como JSON y lo publica con la routing key dada.
func (p *EventProducer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return errors.New("canal AMQP no inicializado")
	}
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
		Timestamp:    time.Now(),
	})
}

// Close cierra canal y conexión.
func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// LogPublisher publicador nulo: registra el evento y no falla.
type LogPublisher struct {
	Log zerolog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	p.Log.Debug().Str("routing_key", routingKey).Interface("body", body).Msg("evento no publicado (sin broker)")
	return nil
}

func (LogPublisher) Close() {}

// Connect devuelve un EventProducer o, si la URL está vacía o el broker no
// responde, un LogPublisher.
func Connect(amqpURL, exchange string, log zerolog.Logger) Publisher {
	if strings.TrimSpace(amqpURL) == "" {
		log.Info().Msg("AMQP_URL vacío: eventos deshabilitados")
		return LogPublisher{Log: log}
	}
	p, err := NewEventProducer(amqpURL, exchange)
	if err != nil {
		log.Warn().Err(err).Msg("broker no disponible: eventos deshabilitados")
		return LogPublisher{Log: log}
	}
	log.Info().Str("exchange", exchange).Msg("publicador AMQP conectado")
	return p
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("la URL AMQP debe empezar por amqp:// o amqps://")
	}
	return clean, nil
}
