package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr         string
	MaxMessageLength int
	SSEHeartbeat     time.Duration
	LogFile          string

	RabbitMQURL       string
	RabbitExchange    string
	RabbitQueue       string
	RabbitCommandKey  string
	RabbitEventPrefix string
	RabbitConsumerTag string

	OTELServiceName string
	OTLPEndpoint    string
	OTLPInsecure    bool
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:          ":3000",
		SSEHeartbeat:      15 * time.Second,
		LogFile:           "logs/app.log",
		RabbitExchange:    "notifications",
		RabbitQueue:       "notifications.commands",
		RabbitCommandKey:  "notification.command.create",
		RabbitEventPrefix: "notification.event",
		RabbitConsumerTag: "ntf-consumer",
		OTELServiceName:   "ntf",
		OTLPInsecure:      true,
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	if v := os.Getenv("MAX_MESSAGE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxMessageLength = n
		}
	}
	if v := os.Getenv("SSE_HEARTBEAT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSEHeartbeat = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")

	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	if v := os.Getenv("RABBITMQ_QUEUE"); v != "" {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_COMMAND_KEY"); v != "" {
		cfg.RabbitCommandKey = v
	}
	if v := os.Getenv("RABBITMQ_EVENT_PREFIX"); v != "" {
		cfg.RabbitEventPrefix = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = b
		}
	}

	return cfg
}
