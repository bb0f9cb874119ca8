package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

// ImportHandler imports queued matches
type ImportHandler interface {
	ImportBatch(ctx context.Context, reqs []domain.ImportRequest) error
}

// Consumer consumes import requests from Kafka
type Consumer struct {
	config        *config.KafkaConfig
	handler       ImportHandler
	logger        *slog.Logger
	consumerGroup sarama.ConsumerGroup
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	ready         chan bool
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg *config.KafkaConfig, handler ImportHandler, logger *slog.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_0_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		config:        cfg,
		handler:       handler,
		logger:        logger,
		consumerGroup: consumerGroup,
		ctx:           ctx,
		cancel:        cancel,
		ready:         make(chan bool),
	}, nil
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start() error {
	c.logger.Info("starting Kafka consumer",
		"brokers", c.config.Brokers,
		"topic", c.config.Topic,
		"group_id", c.config.GroupID,
	)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			handler := &consumerGroupHandler{
				consumer: c,
				ready:    c.ready,
			}

			if err := c.consumerGroup.Consume(c.ctx, []string{c.config.Topic}, handler); err != nil {
				if err == sarama.ErrClosedConsumerGroup {
					return
				}
				c.logger.Error("error from consumer", "error", err)
			}

			// Check if context was cancelled
			if c.ctx.Err() != nil {
				return
			}

			c.ready = make(chan bool)
		}
	}()

	// Wait until consumer is ready
	<-c.ready
	c.logger.Info("Kafka consumer ready")

	// Handle errors in separate goroutine
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.ctx.Done():
				return
			case err, ok := <-c.consumerGroup.Errors():
				if !ok {
					return
				}
				c.logger.Error("consumer group error", "error", err)
			}
		}
	}()

	return nil
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() error {
	c.logger.Info("stopping Kafka consumer")
	c.cancel()
	c.wg.Wait()
	return c.consumerGroup.Close()
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
	ready    chan bool
}

// Setup is called at the beginning of a new session
func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

// Cleanup is called at the end of a session
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// pendingBatch collects decoded requests and the messages they came from.
// Offsets are marked only after the batch has been handed to the importer.
type pendingBatch struct {
	reqs     []domain.ImportRequest
	seen     map[string]struct{}
	messages []*sarama.ConsumerMessage
}

func newPendingBatch(size int) *pendingBatch {
	return &pendingBatch{
		reqs: make([]domain.ImportRequest, 0, size),
		seen: make(map[string]struct{}, size),
	}
}

// add queues req unless the batch already holds the same match
func (b *pendingBatch) add(req domain.ImportRequest, msg *sarama.ConsumerMessage) {
	b.messages = append(b.messages, msg)
	if _, dup := b.seen[req.MatchID]; dup {
		return
	}
	b.seen[req.MatchID] = struct{}{}
	b.reqs = append(b.reqs, req)
}

func (b *pendingBatch) reset() {
	b.reqs = b.reqs[:0]
	b.messages = b.messages[:0]
	clear(b.seen)
}

// ConsumeClaim processes messages from a topic partition
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	cfg := h.consumer.config
	logger := h.consumer.logger
	batch := newPendingBatch(cfg.BatchSize)
	batchTimer := time.NewTimer(cfg.BatchTimeout)
	defer batchTimer.Stop()

	flush := func() {
		if len(batch.messages) == 0 {
			return
		}
		if len(batch.reqs) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), batchTimeout(cfg, len(batch.reqs)))
			if err := h.consumer.handler.ImportBatch(ctx, batch.reqs); err != nil {
				logger.Error("failed to import batch", "error", err, "batch_size", len(batch.reqs))
			} else {
				logger.Debug("imported batch", "batch_size", len(batch.reqs), "partition", claim.Partition())
			}
			cancel()
		}
		for _, msg := range batch.messages {
			session.MarkMessage(msg, "")
		}
		batch.reset()
	}

	for {
		select {
		case <-session.Context().Done():
			flush()
			return nil

		case <-batchTimer.C:
			flush()
			batchTimer.Reset(cfg.BatchTimeout)

		case message, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}

			req, err := decodeRequest(message.Value)
			if err != nil {
				logger.Warn("dropping import message",
					"error", err,
					"offset", message.Offset,
					"partition", message.Partition,
				)
				session.MarkMessage(message, "")
				continue
			}

			batch.add(req, message)
			if len(batch.reqs) >= cfg.BatchSize {
				flush()
				batchTimer.Reset(cfg.BatchTimeout)
			}
		}
	}
}

var errEmptyMatchID = errors.New("message has no match_id")

// decodeRequest parses one queued import request
func decodeRequest(value []byte) (domain.ImportRequest, error) {
	var req domain.ImportRequest
	if err := json.Unmarshal(value, &req); err != nil {
		return req, fmt.Errorf("decoding import request: %w", err)
	}
	req.MatchID = strings.TrimSpace(req.MatchID)
	if req.MatchID == "" {
		return req, errEmptyMatchID
	}
	return req, nil
}

// batchTimeout gives every request in a batch its own import budget
func batchTimeout(cfg *config.KafkaConfig, size int) time.Duration {
	perImport := cfg.ImportTimeout
	if perImport <= 0 {
		perImport = 30 * time.Second
	}
	return perImport * time.Duration(size)
}
