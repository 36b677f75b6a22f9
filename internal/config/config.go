package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the notification service.
// It is read once at startup and treated as fixed input by the pipeline.
type Config struct {
	App       AppConfig
	Kafka     KafkaConfig
	Topics    TopicConfig
	Consumers ConsumerConfig
	Sender    SenderConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// KafkaConfig defines broker information.
type KafkaConfig struct {
	Brokers []string
}

// TopicConfig enumerates the destination topics: one per channel, the bulk
// overflow topic and the dead-letter topic.
type TopicConfig struct {
	Email    string
	SMS      string
	WhatsApp string
	Bulk     string
	DLQ      string
}

// ConsumerConfig controls the channel consumer runners.
type ConsumerConfig struct {
	GroupID            string
	LoopBackoffSeconds int
}

// GroupFor derives the consumer group for a channel from the base group id.
func (c ConsumerConfig) GroupFor(channel string) string {
	return fmt.Sprintf("%s-%s", c.GroupID, channel)
}

// SenderConfig tunes the simulated send collaborator.
type SenderConfig struct {
	LatencyMs int
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Kafka.Brokers = ldr.getStringSlice("KAFKA_BROKERS", true)

	cfg.Topics.Email = ldr.getString("KAFKA_TOPIC_EMAIL_NOTIFICATIONS", "email-notifications", false)
	cfg.Topics.SMS = ldr.getString("KAFKA_TOPIC_SMS_NOTIFICATIONS", "sms-notifications", false)
	cfg.Topics.WhatsApp = ldr.getString("KAFKA_TOPIC_WHATSAPP_NOTIFICATIONS", "whatsapp-notifications", false)
	cfg.Topics.Bulk = ldr.getString("KAFKA_TOPIC_BULK_NOTIFICATIONS", "bulk-notifications", false)
	cfg.Topics.DLQ = ldr.getString("KAFKA_TOPIC_DLQ", "notifications-dlq", false)

	cfg.Consumers.GroupID = ldr.getString("KAFKA_CONSUMER_GROUP_ID", "notification-service", false)
	cfg.Consumers.LoopBackoffSeconds = ldr.getInt("CONSUMER_LOOP_BACKOFF_SECONDS", 5, false)

	cfg.Sender.LatencyMs = ldr.getInt("SENDER_LATENCY_MS", 50, false)

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		if required {
			return nil
		}
		return []string{}
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
