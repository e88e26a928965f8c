// Package notify publishes buyer-facing payment events. The store
// platform consumes them and sends the actual emails.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

// Event kinds published to the notification topic.
const (
	EventPaymentOnHold    = "payment.on_hold"
	EventPaymentDeclined  = "payment.declined"
	EventPaymentCompleted = "payment.completed"
)

type paymentEvent struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"order_id"`
	BuyerEmail string    `json:"buyer_email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaNotifier publishes payment events to a Kafka topic.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	return sarama.NewSyncProducer(brokers, config)
}

func NewKafkaNotifier(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic, logger: logger}
}

func (n *KafkaNotifier) PaymentOnHold(ctx context.Context, orderID, email string) error {
	return n.publish(EventPaymentOnHold, orderID, email)
}

func (n *KafkaNotifier) PaymentDeclined(ctx context.Context, orderID, email string) error {
	return n.publish(EventPaymentDeclined, orderID, email)
}

func (n *KafkaNotifier) PaymentCompleted(ctx context.Context, orderID, email string) error {
	return n.publish(EventPaymentCompleted, orderID, email)
}

func (n *KafkaNotifier) publish(event, orderID, email string) error {
	payload, err := json.Marshal(paymentEvent{
		Event:      event,
		OrderID:    orderID,
		BuyerEmail: email,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(orderID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		return err
	}

	n.logger.Info("payment event published",
		"event", event, "order_id", orderID, "partition", partition, "offset", offset)
	return nil
}

// LogNotifier is the fallback when no brokers are configured: events are
// only written to the log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) PaymentOnHold(ctx context.Context, orderID, email string) error {
	n.logger.Info("payment on hold", "order_id", orderID, "buyer_email", email)
	return nil
}

func (n *LogNotifier) PaymentDeclined(ctx context.Context, orderID, email string) error {
	n.logger.Info("payment declined", "order_id", orderID, "buyer_email", email)
	return nil
}

func (n *LogNotifier) PaymentCompleted(ctx context.Context, orderID, email string) error {
	n.logger.Info("payment completed", "order_id", orderID, "buyer_email", email)
	return nil
}
