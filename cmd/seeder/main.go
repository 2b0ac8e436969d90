package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/bootstrap"
	"github.com/GregMSThompson/verify-backend/internal/config"
	"github.com/GregMSThompson/verify-backend/internal/models"
	"github.com/GregMSThompson/verify-backend/internal/store"
	"github.com/GregMSThompson/verify-backend/pkg/helpers"
)

const totalRecords = 200

// Seeds the transactions collection with plausible resolved records so the
// stats endpoint has something to roll up during local development.
func main() {
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer bs.Close()

	ctx := context.Background()
	tstore := store.NewTransactionStore(bs.Firestore)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("seeding %d transaction records...", totalRecords)
	for i := 0; i < totalRecords; i++ {
		id := fmt.Sprintf("%s%011dSEED", models.Banks[randomBank(rng)].Prefix, i)
		status := models.AllStatuses[rng.Intn(len(models.AllStatuses))]
		now := time.Now()

		patch := models.RecordPatch{
			Status:          helpers.Ptr(status),
			SourceBank:      helpers.Ptr(randomBank(rng)),
			DestinationBank: helpers.Ptr(randomBank(rng)),
			Amount:          helpers.Ptr(rng.Int63n(50000000) + 50000),
			LastChecked:     now,
			ExpiresAt:       helpers.Ptr(now.Add(cfg.RecordTTL)),
			Metadata:        &models.Metadata{VerificationMode: "mock"},
		}
		entry := models.HistoryEntry{Status: status, Timestamp: now, Source: models.SourceInitialCheck}

		if _, err := tstore.Upsert(ctx, id, patch, entry); err != nil {
			log.Fatalf("seed upsert failed at %d: %v", i, err)
		}
	}
	log.Println("seeding complete")
}

func randomBank(rng *rand.Rand) string {
	return models.BankKeys[rng.Intn(len(models.BankKeys))]
}
