package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Pratham1708/lyftr-ai-backend/internal/config"
	"github.com/Pratham1708/lyftr-ai-backend/internal/db/gormdb"
	domain "github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
	mesgRepo "github.com/Pratham1708/lyftr-ai-backend/internal/repository/gorm/message"
	"github.com/google/uuid"
)

func main() {
	ctx := context.Background()

	// Load application configuration (DB etc.) from env/.env.
	cfg := config.New()

	// Open a Postgres connection through our GORM adapter.
	gormAdapter, err := gormdb.New(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("[Seed] Failed to connect to database: %v", err)
	}

	log.Printf("[Seed] Connected to database %q", cfg.DB.Name)

	repo := mesgRepo.NewRepository(gormAdapter)

	// 1) Make sure the messages table and its indexes exist.
	if err := repo.Migrate(); err != nil {
		log.Fatalf("[Seed] Migration failed: %v", err)
	}
	log.Println("[Seed] Messages table is up to date.")

	// 2) Insert N fixture messages spread over the past week. Inserts go
	// through the idempotent path, so rerunning the seed never duplicates
	// a message_id.
	const seedCount = 50

	senders := []string{
		"+919876543210",
		"+919876543211",
		"+14155550100",
		"+14155550101",
		"+905321234567",
	}

	log.Printf("[Seed] Inserting %d fixture messages...", seedCount)

	created := 0
	for i := 0; i < seedCount; i++ {
		text := fmt.Sprintf("Seed message #%d", i+1)
		ts := time.Now().UTC().
			Add(-time.Duration(rand.Intn(7*24)) * time.Hour).
			Format(time.RFC3339)

		// Use the domain constructor so fixtures pass the same validation
		// as real webhook traffic.
		msg, err := domain.New(
			"seed-"+uuid.NewString(),
			senders[rand.Intn(len(senders))],
			"+14155550199",
			ts,
			&text,
		)
		if err != nil {
			log.Fatalf("[Seed] Invalid fixture message #%d: %v", i+1, err)
		}

		outcome, err := repo.Insert(ctx, msg)
		if err != nil {
			log.Fatalf("[Seed] Failed to insert message #%d: %v", i+1, err)
		}
		if outcome == domain.OutcomeCreated {
			created++
		}

		log.Printf("[Seed] Message #%d: id=%s from=%s outcome=%s",
			i+1, msg.MessageID, msg.From, outcome)
	}

	log.Printf("[Seed] Done. Created %d of %d messages in table 'messages'.", created, seedCount)
}
