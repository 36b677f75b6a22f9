// Command bulk-dispatch reads a bulk notification request as JSON from a file
// (or stdin) and pushes it through the full pipeline: validation,
// classification, batching, payload building and Kafka publication. The
// resulting summary is printed as JSON. It is the command-line stand-in for
// the HTTP layer that normally invokes the orchestrator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/bulk"
	"github.com/ajayykmr/notification-service-go/internal/config"
	"github.com/ajayykmr/notification-service-go/internal/kafka/dispatch"
	"github.com/ajayykmr/notification-service-go/internal/kafka/producer"
	"github.com/ajayykmr/notification-service-go/internal/logger"
	"github.com/ajayykmr/notification-service-go/internal/models"
)

func main() {
	requestPath := flag.String("request", "-", "path to the bulk request JSON, or - for stdin")
	flag.Parse()

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
	log := baseLogger.With().Str("service", "bulk-dispatch").Logger()

	req, err := readRequest(*requestPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *requestPath).Msg("failed to read bulk request")
	}

	prod, err := producer.New(cfg.Kafka.Brokers, log.With().Str("component", "kafka").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka producer")
	}
	defer func() {
		if err := prod.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka producer")
		}
	}()

	dispatcher, err := dispatch.NewDispatcher(prod, dispatch.Topics{
		Email:    cfg.Topics.Email,
		SMS:      cfg.Topics.SMS,
		WhatsApp: cfg.Topics.WhatsApp,
		Bulk:     cfg.Topics.Bulk,
		DLQ:      cfg.Topics.DLQ,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dispatcher")
	}

	svc, err := bulk.NewService(dispatcher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bulk service")
	}

	summary, err := svc.ProcessBulkRequest(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("bulk request rejected")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Fatal().Err(err).Msg("failed to encode summary")
	}
}

func readRequest(path string) (*models.BulkRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var req models.BulkRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("bulk dispatch init failed")
}
