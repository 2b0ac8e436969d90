package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/verify-backend/internal/client/blockchain"
	"github.com/GregMSThompson/verify-backend/internal/client/verifier"
	"github.com/GregMSThompson/verify-backend/internal/config"
	"github.com/GregMSThompson/verify-backend/internal/dto"
	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

type Bootstrap struct {
	Log        *slog.Logger
	Firestore  *firestore.Client
	Verifier   verifier.Client
	Blockchain blockchain.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Verifier = selectVerifier(cfg)
	bs.Blockchain = blockchain.NewAdapter(cfg.BlockchainAPIURL, cfg.BlockchainTimeout)

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
}

// selectVerifier wires the verifier for the configured mode: mock for local
// development, real for production, hybrid for real with mock fallback.
func selectVerifier(cfg *config.Config) verifier.Client {
	mock := verifier.NewMock(time.Now().UnixNano())
	switch cfg.VerificationMode {
	case dto.VerificationReal:
		return verifier.NewAdapter(cfg.VerifierBaseURL, cfg.VerifierAPIKey, cfg.VerifierTimeout)
	case dto.VerificationHybrid:
		real := verifier.NewAdapter(cfg.VerifierBaseURL, cfg.VerifierAPIKey, cfg.VerifierTimeout)
		return verifier.NewHybrid(real, mock)
	default:
		return mock
	}
}
