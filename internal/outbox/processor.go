package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	kafkainfra "burgerhouse/internal/infrastructure/kafka"
	"burgerhouse/internal/repository/outbox_repo"
)

// Processor drains pending outbox messages into Kafka on a fixed interval.
type Processor struct {
	outboxRepo   outbox_repo.OutboxRepository
	producer     kafkainfra.Producer
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *zap.Logger
	stop         chan struct{}
	stopOnce     sync.Once
}

func NewProcessor(
	outboxRepo outbox_repo.OutboxRepository,
	producer kafkainfra.Producer,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		outboxRepo:   outboxRepo,
		producer:     producer,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

func (p *Processor) Start() {
	p.logger.Info("Starting outbox processor...")
	go func() {
		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), p.pollTimeout)
				p.processMessages(ctx)
				cancel()
			case <-p.stop:
				p.logger.Info("Outbox processor stopped.")
				return
			}
		}
	}()
}

func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

func (p *Processor) processMessages(ctx context.Context) {
	messages, err := p.outboxRepo.GetUnsentMessages(ctx)
	if err != nil {
		p.logger.Error("Failed to get unsent outbox messages", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		p.logger.Debug("No unsent outbox messages found.")
		return
	}

	p.logger.Info("Processing unsent outbox messages", zap.Int("count", len(messages)))

	for _, msg := range messages {
		if err := p.producer.Produce(ctx, msg.Topic, msg.Payload); err != nil {
			p.logger.Error("Failed to produce outbox message to Kafka",
				zap.String("message_id", msg.ID),
				zap.String("topic", msg.Topic),
				zap.Error(err))
			continue
		}
		if err := p.outboxRepo.MarkMessageSent(ctx, msg.ID); err != nil {
			p.logger.Error("Failed to mark outbox message as sent",
				zap.String("message_id", msg.ID),
				zap.Error(err))
		} else {
			p.logger.Debug("Outbox message sent and marked as sent", zap.String("message_id", msg.ID))
		}
	}
}
