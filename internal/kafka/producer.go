package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"

	"github.com/league-stats/internal/domain"
)

// Producer enqueues import requests
type Producer struct {
	topic    string
	producer sarama.SyncProducer
}

// NewProducer connects a synchronous producer to the brokers
func NewProducer(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}
	return newProducer(producer, topic), nil
}

func newProducer(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{topic: topic, producer: producer}
}

// Publish enqueues one import request keyed by match id, so repeats land on one partition
func (p *Producer) Publish(req domain.ImportRequest) (int32, int64, error) {
	value, err := json.Marshal(req)
	if err != nil {
		return 0, 0, fmt.Errorf("encoding import request: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(req.MatchID),
		Value: sarama.ByteEncoder(value),
	}
	return p.producer.SendMessage(msg)
}

// Close flushes and closes the producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
