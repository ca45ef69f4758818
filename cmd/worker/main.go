package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"campushub/internal/config"
	"campushub/internal/notifier"
	"campushub/internal/queue"
	"campushub/internal/store"
)

func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "campushub-worker").Logger()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker failed")
	}
}

func run(cfg config.App, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		// an in-memory queue cannot be shared across processes
		log.Warn().Msg("QUEUE_BACKEND=memory, worker only sees its own queue")
		q = queue.NewInMemory(64)
	} else {
		redisClient := store.NewRedis(cfg.RedisAddr)
		q = queue.NewRedisQueue(redisClient.Client, "campushub:notices")
	}

	if cfg.SMTPFrom == "" {
		return errors.New("SMTP_FROM not configured")
	}
	host := cfg.SMTPAddr
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	sender := notifier.SMTPSender{
		Addr: cfg.SMTPAddr,
		Host: host,
		From: cfg.SMTPFrom,
		Pass: cfg.SMTPPassword,
	}

	log.Info().Str("queue", cfg.QueueBackend).Msg("worker started")
	return notifier.NewWorker(q, sender, log).Run(ctx)
}
