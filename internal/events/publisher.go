package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"carbon-trace/internal/domain"
)

// Event es el payload que se publica por cada prediccion.
type Event struct {
	Username           string                     `json:"username"`
	EventType          string                     `json:"event_type"`
	PredictedFootprint float64                    `json:"predicted_footprint"`
	UserData           domain.QuestionnaireRecord `json:"user_data"`
}

// Publisher define la interfaz del bus de eventos. La entrega es
// fire-and-forget: un fallo se loguea y nunca afecta el resultado del request.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NATSPublisher publica eventos en NATS JetStream via watermill.
type NATSPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewNATSPublisher conecta al servidor NATS y deja el publisher listo.
func NewNATSPublisher(url, topic string) (*NATSPublisher, error) {
	logger := watermill.NewStdLogger(false, false)

	cfg := wmNats.PublisherConfig{
		URL: url,
		NatsOptions: []natsgo.Option{
			natsgo.RetryOnFailedConnect(true),
			natsgo.ReconnectWait(time.Second),
		},
		Marshaler: &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
		},
	}

	pub, err := wmNats.NewPublisher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	return &NATSPublisher{publisher: pub, topic: topic}, nil
}

// Publish serializa el evento y lo envia; el username viaja como metadata key.
func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set("key", event.Username)
	msg.Metadata.Set("event_type", event.EventType)
	return p.publisher.Publish(p.topic, msg)
}

func (p *NATSPublisher) Close() error {
	return p.publisher.Close()
}

type disabledPublisher struct{}

// NewDisabledPublisher devuelve un publisher no-op para correr sin bus.
func NewDisabledPublisher() Publisher {
	return disabledPublisher{}
}

func (disabledPublisher) Publish(_ context.Context, _ Event) error { return nil }
func (disabledPublisher) Close() error                             { return nil }
