package bootstrap

import (
	"context"
	"log"
	"os"

	"prodreport-be/internal/config"
	"prodreport-be/internal/controller"
	"prodreport-be/internal/pkg/logger"
	"prodreport-be/internal/repository/memory"
	"prodreport-be/internal/service"
	"prodreport-be/pkg/events"
	"prodreport-be/pkg/flow/state"
	pktNats "prodreport-be/pkg/nats"
	"prodreport-be/pkg/sheets"
	"prodreport-be/pkg/sheets/googleapi"
	"prodreport-be/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	ReportController  controller.IReportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Transport client (main.go registers the webhook)
	Bot *telegram.Client

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Tabular store (summary worksheet) and the append-only log worksheet
	summaryAPI := googleapi.NewClient(
		cfg.Sheets.BaseURL,
		cfg.Sheets.Token,
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.SummarySheet,
	)
	logAPI := googleapi.NewClient(
		cfg.Sheets.BaseURL,
		cfg.Sheets.Token,
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.LogSheet,
	)

	openCtx, cancel := context.WithTimeout(context.Background(), cfg.App.StoreTimeout)
	defer cancel()
	store, err := sheets.Open(openCtx, summaryAPI)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open summary worksheet: %v", err)
	}
	log.Printf("[INFO] Summary worksheet opened: %d columns", len(store.Headers()))

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionIdleTimeout)

	// NATS (best effort; the service works without the bus)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		// Audit trail: every system event lands in its own rotated file.
		auditLogger := logger.NewIsolatedLogger("logs/events.log")
		err := natsSub.Subscribe("events.>", "report-audit", func(ctx context.Context, event events.Event) error {
			auditLogger.Info("events", event.EventType(), event.Payload())
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to system events: %v", err)
		}
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Topics.ReportLog, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Topics.ReportLog, logAPI)

	ledgerService := service.NewLedgerService(store, publisherService, natsPub, sysLogger)

	stateManager := state.NewManager(log.New(os.Stdout, "", log.LstdFlags))
	conversationService := service.NewConversationService(
		sessionRepo,
		store,
		ledgerService,
		stateManager,
		sysLogger,
		cfg.App.StoreTimeout,
	)

	// 5. Transport
	bot := telegram.NewClient(cfg.Telegram.BotToken)

	// 6. Controllers
	webhookController := controller.NewWebhookController(
		conversationService,
		bot,
		cfg.Telegram.WebhookSecret,
		sysLogger,
	)
	reportController := controller.NewReportController(ledgerService, cfg.App.StoreTimeout)

	return &Container{
		WebhookController: webhookController,
		ReportController:  reportController,
		ConsumerService:   consumerService,
		Bot:               bot,
		Logger:            sysLogger,
	}
}
