package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		PG              PG
		Kafka           Kafka
		KafkaController KafkaController
		SAP             SAP
		Secrets         Secrets
		Dedup           Dedup
		Webhook         Webhook
		Links           Links
		Swagger         Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS,required"`
		GroupID string   `env:"KAFKA_GROUP_ID,required"`

		VendorCreateTopic string `env:"KAFKA_VENDOR_CREATE_TOPIC" envDefault:"vendor-create"`
		VendorUpdateTopic string `env:"KAFKA_VENDOR_UPDATE_TOPIC" envDefault:"vendor-update"`
		StatusTopic       string `env:"KAFKA_STATUS_TOPIC" envDefault:"vendor-status"`
		DeadLetterTopic   string `env:"KAFKA_DEAD_LETTER_TOPIC" envDefault:"vendor-operations-dlq"`
		// Reserved for the invitation email pipeline, not consumed here.
		InviteEmailTopic string `env:"KAFKA_INVITE_EMAIL_TOPIC" envDefault:"vendor-invite-email"`
	}

	KafkaController struct {
		CommitTimeout   time.Duration `env:"KAFKA_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"KAFKA_CONTROLLER_PROCESS_TIMEOUT" envDefault:"45s"` // full operation incl. the remote round trip
		RequeueTimeout  time.Duration `env:"KAFKA_CONTROLLER_REQUEUE_TIMEOUT" envDefault:"5s"`
		ShutdownTimeout time.Duration `env:"KAFKA_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		MaxDeliveries   int           `env:"KAFKA_CONTROLLER_MAX_DELIVERIES" envDefault:"5"`
		Workers         int           `env:"KAFKA_CONTROLLER_WORKERS" envDefault:"0"` // 0 = NumCPU
	}

	// SAP values double as the fallback connection parameters when the
	// secret store is unavailable; the defaults keep local runs working.
	SAP struct {
		Host            string        `env:"SAP_HOST" envDefault:"sap.example.internal"`
		SystemNumber    string        `env:"SAP_SYSTEM_NUMBER" envDefault:"00"`
		Client          string        `env:"SAP_CLIENT" envDefault:"100"`
		ServiceUser     string        `env:"SAP_SERVICE_USER" envDefault:"SVC_VENDOR_BRIDGE"`
		ServicePassword string        `env:"SAP_SERVICE_PASSWORD" envDefault:"changeme"`
		GatewayTimeout  time.Duration `env:"SAP_GATEWAY_TIMEOUT" envDefault:"30s"`

		AssertionIssuer     string        `env:"SAP_ASSERTION_ISSUER" envDefault:"sap-vendor-bridge"`
		AssertionSigningKey string        `env:"SAP_ASSERTION_SIGNING_KEY" envDefault:"dev-only-signing-key"`
		AssertionTTL        time.Duration `env:"SAP_ASSERTION_TTL" envDefault:"5m"`
	}

	Secrets struct {
		Endpoint    string        `env:"SECRETS_ENDPOINT"` // empty disables the secret store
		Region      string        `env:"SECRETS_REGION" envDefault:"us-east-1"`
		AccessKey   string        `env:"SECRETS_ACCESS_KEY"`
		SecretKey   string        `env:"SECRETS_SECRET_KEY"`
		SecretName  string        `env:"SECRETS_SECRET_NAME" envDefault:"sap/vendor-bridge/connection"`
		LoadTimeout time.Duration `env:"SECRETS_LOAD_TIMEOUT" envDefault:"10s"`
	}

	Dedup struct {
		Window        time.Duration `env:"DEDUP_WINDOW" envDefault:"10m"`
		PurgeInterval time.Duration `env:"DEDUP_PURGE_INTERVAL" envDefault:"5m"`
	}

	Webhook struct {
		Retention     time.Duration `env:"WEBHOOK_RETENTION" envDefault:"720h"`
		PurgeInterval time.Duration `env:"WEBHOOK_PURGE_INTERVAL" envDefault:"24h"`
	}

	Links struct {
		BaseURL string `env:"LINKS_BASE_URL" envDefault:"http://localhost:8080"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
