package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/taim-chat/internal/config"
	"github.com/suPer8Hu/taim-chat/internal/observability"
	"github.com/suPer8Hu/taim-chat/internal/store/rabbitmq"
)

// The worker drains turn events published by the server and writes one
// structured log line per turn.
func main() {
	cfg := config.Load()
	if cfg.RabbitURL == "" {
		log.Fatalf("RABBIT_URL must be set for the worker")
	}
	logger := observability.Logger().With("component", "turn-worker")

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	if _, err := rabbitmq.DeclareQueues(ch, cfg.RabbitQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := cfg.WorkerConcurrency
	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started", "queue", cfg.RabbitQueue, "concurrency", concurrency)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				ev, err := rabbitmq.DecodeTurn(d.Body)
				if err != nil || ev.ChatID == "" {
					logger.Warn("bad message", "worker", workerID, "error", err)
					_ = d.Nack(false, false)
					continue
				}

				lag := time.Since(ev.At)
				if ev.OK {
					logger.Info("turn", "worker", workerID, "chat_id", ev.ChatID,
						"title_updated", ev.TitleUpdated, "has_image", ev.HasImage, "lag", lag)
				} else {
					logger.Warn("turn failed", "worker", workerID, "chat_id", ev.ChatID,
						"error", ev.Error, "has_image", ev.HasImage, "lag", lag)
				}

				if err := d.Ack(false); err != nil {
					logger.Error("ack failed", "worker", workerID, "chat_id", ev.ChatID, "error", err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				logger.Warn("delivery channel closed")
				close(jobs)
				wg.Wait()
				return
			}
			jobs <- d
		}
	}
}
