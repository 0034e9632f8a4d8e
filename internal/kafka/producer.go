package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"instapic-ticketing/internal/config"
	"instapic-ticketing/internal/logger"
	"instapic-ticketing/internal/models"
	"instapic-ticketing/internal/monitoring"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes ticket lifecycle events keyed by ticket code, so all
// events of one ticket land on the same partition in order.
type Producer struct {
	writer messageWriter
	topics config.TopicConfig
	log    *logger.Logger
}

// NewProducer returns an asynchronous producer: WriteMessages only enqueues,
// and delivery results arrive in onCompletion, so a slow or absent broker
// never holds up issuance or session completion.
func NewProducer(brokers []string, topics config.TopicConfig, log *logger.Logger) *Producer {
	p := &Producer{topics: topics, log: log}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		Completion:             p.onCompletion,
	}
	return p
}

func newProducer(writer messageWriter, topics config.TopicConfig, log *logger.Logger) *Producer {
	return &Producer{writer: writer, topics: topics, log: log}
}

func (p *Producer) onCompletion(messages []kafka.Message, err error) {
	for _, msg := range messages {
		if err != nil {
			monitoring.RecordPublishFailure(msg.Topic)
			p.log.Error("KAFKA", fmt.Sprintf("Failed to deliver event for ticket %s to %s: %v", msg.Key, msg.Topic, err))
			continue
		}
		p.log.LogKafka("DELIVERED", msg.Topic, fmt.Sprintf("event for ticket %s", msg.Key))
	}
}

// PublishTicketIssued streams the ticket issuance event to Kafka
func (p *Producer) PublishTicketIssued(ctx context.Context, ticket models.Ticket) error {
	return p.publish(ctx, p.topics.TicketIssued, models.NewTicketEventDto(models.TicketEventIssued, &ticket))
}

// PublishTicketUsed streams the session completion event to Kafka
func (p *Producer) PublishTicketUsed(ctx context.Context, ticket models.Ticket) error {
	return p.publish(ctx, p.topics.TicketUsed, models.NewTicketEventDto(models.TicketEventUsed, &ticket))
}

func (p *Producer) publish(ctx context.Context, topic string, event models.TicketEventDto) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.TicketCode),
		Value: msgBytes,
	})
	if err != nil {
		monitoring.RecordPublishFailure(topic)
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.log.LogKafka("PUBLISH", topic, fmt.Sprintf("%s queued for ticket %s", event.Type, event.TicketCode))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
