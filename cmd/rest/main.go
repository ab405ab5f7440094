package main

import (
	"context"
	"log"

	"prodreport-be/internal/bootstrap"
	"prodreport-be/internal/config"
	"prodreport-be/internal/server"
	"prodreport-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting report log consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 4. Register the Telegram webhook
	webhookURL := cfg.App.BaseURL + "/api/webhook/v1/telegram"
	if err := container.Bot.SetWebhook(context.Background(), webhookURL, cfg.Telegram.WebhookSecret); err != nil {
		log.Printf("[WARN] Failed to register webhook (%s): %v", webhookURL, err)
	} else {
		log.Printf("[INFO] Webhook registered: %s", webhookURL)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
