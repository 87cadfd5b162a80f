package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// RedisNotifier publishes balance updates on a Redis Pub/Sub channel per
// wallet, so subscribers can watch a single account.
type RedisNotifier struct {
	client *redis.Client
	prefix string
}

// NewRedisNotifier constructs a Redis-backed notifier. The channel name is
// prefix + wallet id.
func NewRedisNotifier(client *redis.Client, prefix string) *RedisNotifier {
	if prefix == "" {
		prefix = "wallet:balance:"
	}
	return &RedisNotifier{client: client, prefix: prefix}
}

// Publish emits the update to the wallet's channel. A slow or absent broker
// is bounded by a short timeout; the caller treats any error as best-effort.
func (n *RedisNotifier) Publish(ctx context.Context, update BalanceUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return n.client.Publish(ctx, n.Channel(update.WalletID), payload).Err()
}

// Channel returns the Pub/Sub channel carrying updates for the wallet.
func (n *RedisNotifier) Channel(walletID string) string {
	return n.prefix + walletID
}
