// Command send posts a signed sample message to a running instance of the
// service, useful for smoke-testing the ingestion path end to end.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Pratham1708/lyftr-ai-backend/internal/request"
	"github.com/Pratham1708/lyftr-ai-backend/internal/webhookclient"
	"github.com/google/uuid"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "base URL of the webhook service")
	secret := flag.String("secret", "testsecret", "shared webhook secret used to sign the payload")
	messageID := flag.String("id", "", "message_id to send (random when empty)")
	text := flag.String("text", "Hello from cmd/send!", "message text")
	flag.Parse()

	id := *messageID
	if id == "" {
		id = "send-" + uuid.NewString()
	}

	client := webhookclient.New(*baseURL, *secret)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		log.Fatalf("[Send] Service not ready: %v", err)
	}

	payload := request.WebhookPayload{
		MessageID: id,
		From:      "+919876543210",
		To:        "+14155550100",
		TS:        time.Now().UTC().Format(time.RFC3339),
		Text:      text,
	}

	log.Printf("[Send] Posting message %s to %s/webhook...", id, *baseURL)

	status, err := client.Send(ctx, payload)
	if err != nil {
		log.Fatalf("[Send] Delivery failed: %v", err)
	}

	log.Printf("[Send] Delivered, status=%q. Rerun with -id %s to exercise the duplicate path.", status, id)
}
