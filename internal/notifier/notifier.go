package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceUpdate is the fire-and-forget payload emitted after a committed
// transfer. Delivery is best-effort and never affects the transfer outcome.
type BalanceUpdate struct {
	WalletID string          `json:"wallet_id"`
	OwnerID  string          `json:"owner_id"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	At       time.Time       `json:"at"`
}

// Notifier delivers balance updates to subscribed consumers.
type Notifier interface {
	Publish(ctx context.Context, update BalanceUpdate) error
}

// LoggerNotifier writes balance updates to the structured logger. It is the
// delivery path when no Redis is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Publish logs the update.
func (n *LoggerNotifier) Publish(_ context.Context, update BalanceUpdate) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("balance update",
		"wallet_id", update.WalletID,
		"owner_id", update.OwnerID,
		"balance", update.Balance.String(),
		"currency", update.Currency,
	)
	return nil
}
