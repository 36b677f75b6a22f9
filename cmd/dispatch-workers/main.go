package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/config"
	"github.com/ajayykmr/notification-service-go/internal/kafka/consumer"
	"github.com/ajayykmr/notification-service-go/internal/logger"
	"github.com/ajayykmr/notification-service-go/internal/models"
	"github.com/ajayykmr/notification-service-go/internal/sender"
	"github.com/ajayykmr/notification-service-go/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "dispatch-workers").Logger()

	simulated := sender.NewSimulated(
		log.With().Str("component", "sender").Logger(),
		sender.WithLatency(time.Duration(cfg.Sender.LatencyMs)*time.Millisecond),
	)

	backoff := time.Duration(cfg.Consumers.LoopBackoffSeconds) * time.Second

	var (
		runners   []*worker.Runner
		consumers []*consumer.Consumer
	)

	channels := []struct {
		channel models.Channel
		topic   string
	}{
		{models.ChannelEmail, cfg.Topics.Email},
		{models.ChannelSMS, cfg.Topics.SMS},
		{models.ChannelWhatsApp, cfg.Topics.WhatsApp},
	}

	for _, c := range channels {
		channelLog := log.With().Str("channel", string(c.channel)).Logger()

		cons, err := consumer.New(cfg.Kafka.Brokers, cfg.Consumers.GroupFor(string(c.channel)), channelLog)
		if err != nil {
			log.Fatal().Err(err).Str("channel", string(c.channel)).Msg("failed to create kafka consumer")
		}
		consumers = append(consumers, cons)

		proc, err := newProcessor(c.channel, simulated, channelLog)
		if err != nil {
			log.Fatal().Err(err).Str("channel", string(c.channel)).Msg("failed to create batch processor")
		}

		runner, err := worker.NewRunner(worker.Config{
			Channel:     c.channel,
			Topics:      []string{c.topic},
			LoopBackoff: backoff,
		}, worker.Dependencies{
			Fetcher:   cons,
			Processor: proc,
			Logger:    channelLog,
		})
		if err != nil {
			log.Fatal().Err(err).Str("channel", string(c.channel)).Msg("failed to create runner")
		}
		runners = append(runners, runner)
	}

	defer func() {
		for _, cons := range consumers {
			if err := cons.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close kafka consumer")
			}
		}
	}()

	manager, err := worker.NewManager(log, runners...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create worker manager")
	}

	log.Info().
		Str("email_topic", cfg.Topics.Email).
		Str("sms_topic", cfg.Topics.SMS).
		Str("whatsapp_topic", cfg.Topics.WhatsApp).
		Msg("dispatch workers starting")

	if err := manager.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker manager terminated with error")
	}
	log.Info().Msg("shutdown complete")
}

func newProcessor(ch models.Channel, s *sender.Simulated, log zerolog.Logger) (worker.ChannelProcessor, error) {
	switch ch {
	case models.ChannelEmail:
		return worker.NewEmailProcessor(s, log)
	case models.ChannelSMS:
		return worker.NewSMSProcessor(s, log)
	default:
		return worker.NewWhatsAppProcessor(s, log)
	}
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("dispatch workers init failed")
}
