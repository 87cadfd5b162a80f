package transfer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbongo-pay/mbongo_pay/internal/ledger"
	"github.com/mbongo-pay/mbongo_pay/internal/notifier"
	"github.com/mbongo-pay/mbongo_pay/internal/storage"
	"github.com/mbongo-pay/mbongo_pay/internal/wallet"
)

// Status is the definitive outcome reported to the caller.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

var (
	errSourceMissing      = errors.New("source wallet missing")
	errDestinationMissing = errors.New("destination wallet missing")
)

// Input captures the data needed to move funds between wallets.
type Input struct {
	SourceOwnerID       string
	DestinationWalletID string
	Amount              decimal.Decimal
	Reference           string
}

// Result describes the outcome of one transfer attempt. Status is always
// set; Reason is set only on failure; TransactionID is set whenever a ledger
// entry was recorded for the attempt.
type Result struct {
	Status        Status
	TransactionID string
	Amount        decimal.Decimal
	Reference     string
	Reason        ledger.Reason
}

// Service is the transfer orchestrator. It owns validation, lock ordering,
// the funds check and every failure path; wallet balances are mutated
// nowhere else.
type Service struct {
	runner   storage.Runner
	wallets  wallet.Store
	entries  ledger.Ledger
	notifier notifier.Notifier
	logger   *slog.Logger
}

// NewService constructs the transfer orchestrator.
func NewService(runner storage.Runner, wallets wallet.Store, entries ledger.Ledger, n notifier.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{runner: runner, wallets: wallets, entries: entries, notifier: n, logger: logger}
}

// Transfer moves amount from the owner's wallet to the destination wallet as
// one atomic unit and records the attempt in the ledger. Every failure mode
// maps to a machine-readable reason; the returned error is non-nil only for
// infrastructure failures, and in that case no partial state was committed.
//
// A replayed reference returns the previously recorded outcome without
// touching any balance.
func (s *Service) Transfer(ctx context.Context, in Input) (Result, error) {
	if in.SourceOwnerID == "" || in.DestinationWalletID == "" || in.Reference == "" || !in.Amount.IsPositive() {
		return s.rejected(in, ledger.ReasonMissingParameters), nil
	}

	if prior, err := s.entries.FindByReference(ctx, in.Reference); err == nil {
		return resultFromEntry(prior), nil
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return s.rejected(in, ledger.ReasonInternalError), err
	}

	// Resolve the source wallet id up front so both rows can be locked in
	// ascending id order regardless of transfer direction.
	src, err := s.wallets.GetByOwner(ctx, in.SourceOwnerID)
	if errors.Is(err, wallet.ErrNotFound) {
		return s.recordFailure(ctx, in, "", ledger.ReasonWalletNotFound)
	} else if err != nil {
		return s.rejected(in, ledger.ReasonInternalError), err
	}
	if src.ID == in.DestinationWalletID {
		return s.rejected(in, ledger.ReasonMissingParameters), nil
	}

	var (
		res     Result
		updates []notifier.BalanceUpdate
	)
	err = s.runner.WithinTx(ctx, func(ctx context.Context) error {
		// Authoritative replay check. The pre-unit check can race a
		// concurrent attempt with the same reference; inside the unit a
		// committed winner is visible before any balance is touched, and
		// an uncommitted one still trips the unique index on Record.
		if prior, err := s.entries.FindByReference(ctx, in.Reference); err == nil {
			res = resultFromEntry(prior)
			return nil
		} else if !errors.Is(err, ledger.ErrNotFound) {
			return err
		}

		source, dest, err := s.lockPair(ctx, src.ID, in.DestinationWalletID)
		if err != nil {
			return err
		}

		if source.Balance.LessThan(in.Amount) {
			// The failure itself commits so the attempt stays auditable,
			// but no balance is touched.
			id, err := s.entries.Record(ctx, s.entry(in, source.ID, ledger.StatusFailed, ledger.ReasonInsufficientBalance))
			if err != nil {
				return err
			}
			res = Result{Status: StatusFailed, TransactionID: id, Amount: in.Amount, Reference: in.Reference, Reason: ledger.ReasonInsufficientBalance}
			return nil
		}

		if err := s.wallets.Debit(ctx, source.ID, in.Amount); err != nil {
			return err
		}
		if err := s.wallets.Credit(ctx, dest.ID, in.Amount); err != nil {
			return err
		}

		id, err := s.entries.Record(ctx, s.entry(in, source.ID, ledger.StatusSuccess, ""))
		if err != nil {
			return err
		}

		res = Result{Status: StatusSuccess, TransactionID: id, Amount: in.Amount, Reference: in.Reference}
		now := time.Now().UTC()
		updates = []notifier.BalanceUpdate{
			{WalletID: source.ID, OwnerID: source.OwnerID, Balance: source.Balance.Sub(in.Amount), Currency: source.Currency, At: now},
			{WalletID: dest.ID, OwnerID: dest.OwnerID, Balance: dest.Balance.Add(in.Amount), Currency: dest.Currency, At: now},
		}
		return nil
	})

	switch {
	case err == nil:
		s.notify(ctx, updates)
		return res, nil
	case errors.Is(err, errSourceMissing):
		return s.recordFailure(ctx, in, "", ledger.ReasonWalletNotFound)
	case errors.Is(err, errDestinationMissing):
		return s.recordFailure(ctx, in, src.ID, ledger.ReasonDestinationWalletNotFound)
	case errors.Is(err, ledger.ErrDuplicateReference):
		// Lost the race against a concurrent attempt with the same
		// reference; the winner's outcome is the outcome.
		if prior, ferr := s.entries.FindByReference(ctx, in.Reference); ferr == nil {
			return resultFromEntry(prior), nil
		}
		return s.rejected(in, ledger.ReasonInternalError), err
	default:
		return s.rejected(in, ledger.ReasonInternalError), err
	}
}

// lockPair locks both wallet rows in ascending wallet-id order. The total
// order is independent of transfer direction, so opposite-direction
// transfers between the same pair cannot deadlock.
func (s *Service) lockPair(ctx context.Context, sourceID, destinationID string) (source, dest wallet.Wallet, err error) {
	first, second := sourceID, destinationID
	if destinationID < sourceID {
		first, second = destinationID, sourceID
	}

	locked := make(map[string]wallet.Wallet, 2)
	for _, id := range []string{first, second} {
		w, err := s.wallets.Lock(ctx, id)
		if errors.Is(err, wallet.ErrNotFound) {
			if id == sourceID {
				return wallet.Wallet{}, wallet.Wallet{}, errSourceMissing
			}
			return wallet.Wallet{}, wallet.Wallet{}, errDestinationMissing
		} else if err != nil {
			return wallet.Wallet{}, wallet.Wallet{}, err
		}
		locked[id] = w
	}

	return locked[sourceID], locked[destinationID], nil
}

// recordFailure durably records a failed attempt whose atomic unit was
// aborted (or never mutated anything). All failed attempts are logged, the
// unknown-destination case included.
func (s *Service) recordFailure(ctx context.Context, in Input, fromWalletID string, reason ledger.Reason) (Result, error) {
	e := s.entry(in, fromWalletID, ledger.StatusFailed, reason)
	id, err := s.entries.Record(ctx, e)
	if errors.Is(err, ledger.ErrDuplicateReference) {
		if prior, ferr := s.entries.FindByReference(ctx, in.Reference); ferr == nil {
			return resultFromEntry(prior), nil
		}
		return s.rejected(in, ledger.ReasonInternalError), err
	}
	if err != nil {
		return s.rejected(in, ledger.ReasonInternalError), err
	}
	return Result{Status: StatusFailed, TransactionID: id, Amount: in.Amount, Reference: in.Reference, Reason: reason}, nil
}

func (s *Service) entry(in Input, fromWalletID string, status ledger.Status, reason ledger.Reason) ledger.Entry {
	return ledger.Entry{
		FromWalletID: fromWalletID,
		ToWalletID:   in.DestinationWalletID,
		Amount:       in.Amount,
		Reference:    in.Reference,
		Type:         ledger.TypeTransfer,
		Status:       status,
		Reason:       reason,
		CreatedAt:    time.Now().UTC(),
	}
}

// notify delivers balance updates after the unit committed. Best effort:
// errors are logged and swallowed, never surfaced to the caller.
func (s *Service) notify(ctx context.Context, updates []notifier.BalanceUpdate) {
	if s.notifier == nil {
		return
	}
	for _, u := range updates {
		if err := s.notifier.Publish(ctx, u); err != nil {
			s.logger.Warn("balance notification dropped", "wallet_id", u.WalletID, "error", err)
		}
	}
}

func (s *Service) rejected(in Input, reason ledger.Reason) Result {
	return Result{Status: StatusFailed, Amount: in.Amount, Reference: in.Reference, Reason: reason}
}

func resultFromEntry(e ledger.Entry) Result {
	status := StatusSuccess
	if e.Status == ledger.StatusFailed {
		status = StatusFailed
	}
	return Result{Status: status, TransactionID: e.ID, Amount: e.Amount, Reference: e.Reference, Reason: e.Reason}
}
