package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"ai-chat-be/pkg/events"
	pkgNats "ai-chat-be/pkg/nats"
)

// Tails the mirrored chat events from JetStream. Useful for watching what the
// backend publishes without attaching a real downstream service.
func main() {
	subject := flag.String("subject", "events.>", "Subject filter to consume")
	durable := flag.String("durable", "event-tail", "Durable consumer name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pkgNats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe(*subject, *durable, func(ctx context.Context, event events.Event) error {
		payload, err := json.Marshal(event.Payload())
		if err != nil {
			return err
		}
		color.Cyan("[%s] %s", time.Now().Format(time.RFC3339), event.EventType())
		color.White("  %s", payload)
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Failed to subscribe: %v", err)
	}

	color.Green("Tailing %s (durable %s). Ctrl+C to stop.", *subject, *durable)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
