package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestOpenWallet(t *testing.T) {
	svc := NewService(NewMemoryStore(), "XAF")
	ctx := context.Background()

	owner := uuid.NewString()
	w, err := svc.Open(ctx, OpenInput{OwnerID: owner, OpeningBalance: decimal.RequireFromString("150.25")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if w.Currency != "XAF" {
		t.Fatalf("expected default currency XAF, got %s", w.Currency)
	}
	if !w.Balance.Equal(decimal.RequireFromString("150.25")) {
		t.Fatalf("opening balance = %s", w.Balance)
	}

	b, err := svc.BalanceByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !b.Amount.Equal(w.Balance) || b.WalletID != w.ID {
		t.Fatalf("unexpected balance read: %+v", b)
	}
}

func TestOpenWalletRejectsBadInput(t *testing.T) {
	svc := NewService(NewMemoryStore(), "XAF")
	ctx := context.Background()

	if _, err := svc.Open(ctx, OpenInput{OwnerID: "not-a-uuid"}); err == nil {
		t.Fatal("expected error for invalid owner id")
	}
	if _, err := svc.Open(ctx, OpenInput{OwnerID: uuid.NewString(), OpeningBalance: decimal.NewFromInt(-1)}); err == nil {
		t.Fatal("expected error for negative opening balance")
	}
}

func TestOpenWalletOncePerOwner(t *testing.T) {
	svc := NewService(NewMemoryStore(), "XAF")
	ctx := context.Background()
	owner := uuid.NewString()

	if _, err := svc.Open(ctx, OpenInput{OwnerID: owner}); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := svc.Open(ctx, OpenInput{OwnerID: owner}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestBalanceByOwnerNotFound(t *testing.T) {
	svc := NewService(NewMemoryStore(), "XAF")

	if _, err := svc.BalanceByOwner(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCreditDebit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	opened := time.Now().UTC().Add(-time.Hour)
	w := Wallet{ID: uuid.NewString(), OwnerID: uuid.NewString(), Balance: decimal.NewFromInt(100), Currency: "XAF", UpdatedAt: opened}
	if err := store.Create(ctx, w); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Debit(ctx, w.ID, decimal.NewFromInt(30)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := store.Credit(ctx, w.ID, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("credit: %v", err)
	}

	got, err := store.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("balance = %s, want 75", got.Balance)
	}
	if !got.UpdatedAt.After(opened) {
		t.Fatalf("UpdatedAt not bumped by adjustment: %s", got.UpdatedAt)
	}

	if err := store.Debit(ctx, uuid.NewString(), decimal.NewFromInt(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
