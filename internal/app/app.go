package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/procuredesk/sap-vendor-bridge/config"
	kafkactrl "github.com/procuredesk/sap-vendor-bridge/internal/controller/kafka"
	"github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi"
	"github.com/procuredesk/sap-vendor-bridge/internal/controller/worker/janitor"
	"github.com/procuredesk/sap-vendor-bridge/internal/dto"
	infrakafka "github.com/procuredesk/sap-vendor-bridge/internal/infrastructure/kafka"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure/sap"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure/secrets"
	"github.com/procuredesk/sap-vendor-bridge/internal/repo/persistent"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase/ingest"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase/vendorops"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase/webhook"
	"github.com/procuredesk/sap-vendor-bridge/pkg/httpserver"
	"github.com/procuredesk/sap-vendor-bridge/pkg/kafka/consumer"
	"github.com/procuredesk/sap-vendor-bridge/pkg/kafka/producer"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
	"github.com/procuredesk/sap-vendor-bridge/pkg/postgres"
	"github.com/procuredesk/sap-vendor-bridge/pkg/secretsclient"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	mappingRepo := persistent.NewVendorMappingRepo(pg)
	dedupRepo := persistent.NewDedupKeyRepo(pg)
	webhookRepo := persistent.NewWebhookStatusRepo(pg)

	// secret store; a failure here must not stop the service, the
	// credential resolver falls back to the configured parameters
	var store secrets.SecretGetter
	if cfg.Secrets.Endpoint != "" {
		secretsCtx, secretsCancel := context.WithTimeout(ctx, cfg.Secrets.LoadTimeout)
		sc, err := secretsclient.New(
			secretsCtx,
			cfg.Secrets.Endpoint,
			cfg.Secrets.AccessKey,
			cfg.Secrets.SecretKey,
			secretsclient.Region(cfg.Secrets.Region),
		)
		secretsCancel()
		if err != nil {
			l.Warn("app - Run - secretsclient.New failed, using config fallback: %v", err)
		} else {
			store = sc.Client
		}
	}

	credResolver := secrets.NewResolver(store, cfg.Secrets.SecretName, dto.ConnectionParams{
		Host:         cfg.SAP.Host,
		SystemNumber: cfg.SAP.SystemNumber,
		Client:       cfg.SAP.Client,
		Username:     cfg.SAP.ServiceUser,
		Password:     cfg.SAP.ServicePassword,
	}, l)

	// SAP connector
	gateway := sap.NewGateway(cfg.SAP.GatewayTimeout)
	connections := sap.NewConnectionFactory(
		gateway,
		credResolver,
		cfg.SAP.AssertionSigningKey,
		cfg.SAP.AssertionIssuer,
		cfg.SAP.AssertionTTL,
	)

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	operationsSender := infrakafka.NewOperationProducer(kafkaProducer, cfg.Kafka.VendorCreateTopic, cfg.Kafka.VendorUpdateTopic)
	statusSender := infrakafka.NewStatusEventProducer(kafkaProducer, cfg.Kafka.StatusTopic)
	redeliverySender := infrakafka.NewRedeliverySender(kafkaProducer, cfg.Kafka.DeadLetterTopic)

	// Use-Case

	ingestUseCase := ingest.New(dedupRepo, operationsSender, l)
	webhookUseCase := webhook.New(webhookRepo, l)
	vendorOpsUseCase := vendorops.New(connections, statusSender, mappingRepo, dedupRepo, pg, l)

	// Janitor Worker
	janitorWorker := janitor.New(
		dedupRepo,
		webhookRepo,
		l,
		cfg.Dedup.Window,
		cfg.Dedup.PurgeInterval,
		cfg.Webhook.Retention,
		cfg.Webhook.PurgeInterval,
	)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(
		ctx,
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupID,
		[]string{cfg.Kafka.VendorCreateTopic, cfg.Kafka.VendorUpdateTopic},
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	workers := cfg.KafkaController.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Kafka as Controller
	kafkaController := kafkactrl.New(
		vendorOpsUseCase,
		infrakafka.NewEventConsumer(kafkaConsumer),
		redeliverySender,
		l,
		cfg.KafkaController.CommitTimeout,
		cfg.KafkaController.ProcessTimeout,
		cfg.KafkaController.RequeueTimeout,
		cfg.KafkaController.MaxDeliveries,
		workers,
	)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, ingestUseCase, webhookUseCase, l)

	// Start Components
	err = janitorWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - janitorWorker.Start: %w", err))
	}
	err = kafkaController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(err, "app - Run - httpServer.Notify")
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(err, "app - Run - httpServer.Shutdown")
	}

	kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
	defer kcShutdownCancel()
	err = kafkaController.Shutdown(kcShutdownCtx)
	if err != nil {
		l.Error(err, "app - Run - kafkaController.Shutdown")
	}

	jShutdownCtx, jShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
	defer jShutdownCancel()
	err = janitorWorker.Shutdown(jShutdownCtx)
	if err != nil {
		l.Error(err, "app - Run - janitorWorker.Shutdown")
	}

	err = kafkaProducer.Close()
	if err != nil {
		l.Error(err, "app - Run - kafkaProducer.Close")
	}
}
