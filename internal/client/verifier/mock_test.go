package verifier

import (
	"context"
	"testing"

	"github.com/GregMSThompson/verify-backend/internal/models"
)

func TestMockDeterministicClassification(t *testing.T) {
	m := NewMock(1)

	cases := map[string]models.Status{
		"9ABCDEFGHIJK":  models.StatusFake,
		"001FAKE567890": models.StatusFake,
		"P01234567890":  models.StatusPending,
		"F00234567890":  models.StatusFailed,
		"9001234567890": models.StatusFake, // leading 9 wins even with a bank-like prefix
		"PENDING123456": models.StatusPending,
		"FAILED1234567": models.StatusFailed,
	}
	for id, want := range cases {
		res, err := m.Verify(context.Background(), id, "UBA")
		if err != nil {
			t.Fatalf("Verify(%q) returned error: %v", id, err)
		}
		if res.Status != want {
			t.Fatalf("Verify(%q) status = %q, want %q", id, res.Status, want)
		}
	}
}

func TestMockFakeHasZeroAmount(t *testing.T) {
	m := NewMock(1)

	res, err := m.Verify(context.Background(), "9ABCDEFGHIJK", "UBA")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if res.Amount != 0 {
		t.Fatalf("fake amount = %d, want 0", res.Amount)
	}
}

func TestMockAmountRange(t *testing.T) {
	m := NewMock(42)

	for i := 0; i < 50; i++ {
		res, err := m.Verify(context.Background(), "P01234567890", "UBA")
		if err != nil {
			t.Fatalf("Verify returned error: %v", err)
		}
		if res.Amount < 50000 || res.Amount > 50050000 {
			t.Fatalf("amount = %d, outside expected minor-unit range", res.Amount)
		}
	}
}

func TestMockRespectsSourceBankHint(t *testing.T) {
	m := NewMock(1)

	res, err := m.Verify(context.Background(), "P01234567890", "ZENITH")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if res.SourceBank != "ZENITH" {
		t.Fatalf("sourceBank = %q, want hint ZENITH", res.SourceBank)
	}
}

func TestMockFillsMissingSourceBank(t *testing.T) {
	m := NewMock(1)

	for i := 0; i < 10; i++ {
		res, err := m.Verify(context.Background(), "P01234567890", "")
		if err != nil {
			t.Fatalf("Verify returned error: %v", err)
		}
		if !models.IsKnownBank(res.SourceBank) {
			t.Fatalf("sourceBank = %q, not a known bank", res.SourceBank)
		}
		if !models.IsKnownBank(res.DestinationBank) {
			t.Fatalf("destinationBank = %q, not a known bank", res.DestinationBank)
		}
	}
}

func TestMockWeightedStatuses(t *testing.T) {
	m := NewMock(7)

	counts := map[models.Status]int{}
	for i := 0; i < 500; i++ {
		res, err := m.Verify(context.Background(), "0011234567890", "UBA")
		if err != nil {
			t.Fatalf("Verify returned error: %v", err)
		}
		if !models.IsValidStatus(res.Status) {
			t.Fatalf("status = %q, not in the canonical set", res.Status)
		}
		counts[res.Status]++
	}
	// 70% weighting: successful has to dominate over 500 draws.
	for status, n := range counts {
		if status == models.StatusSuccessful {
			continue
		}
		if counts[models.StatusSuccessful] <= n {
			t.Fatalf("successful count %d not dominant over %q count %d",
				counts[models.StatusSuccessful], status, n)
		}
	}
}

func TestMockCancelledContext(t *testing.T) {
	m := NewMock(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Verify(ctx, "0011234567890", "UBA"); err == nil {
		t.Fatal("Verify succeeded on a cancelled context")
	}
}
