package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openloot/packtrace/internal/purchase"
)

// purchaseKeyPrefix is the namespace prefix for purchase journal keys.
const purchaseKeyPrefix = "purchase"

// journalMaxEntries bounds how much history is kept per buyer.
const journalMaxEntries = 50

// journalKey constructs the Redis key holding a buyer's attempt history.
// Format: "purchase:journal:<buyer>" (buyer lowercased; addresses are
// case-insensitive hex).
func journalKey(buyer string) string {
	return fmt.Sprintf("%s:journal:%s", purchaseKeyPrefix, strings.ToLower(buyer))
}

// RecordAttempt implements purchase.Journal. Attempts are pushed onto the
// head of the buyer's list so LRANGE reads newest first, and the list is
// trimmed to the retention bound in the same pipeline.
func (c *client) RecordAttempt(ctx context.Context, record purchase.AttemptRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := journalKey(record.Buyer)

	pipe := c.conn.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, journalMaxEntries-1)

	_, err = pipe.Exec(ctx)
	return err
}

// ListRecentAttempts implements purchase.Journal, returning up to limit
// records newest first.
func (c *client) ListRecentAttempts(ctx context.Context, buyer string, limit int) ([]purchase.AttemptRecord, error) {
	if limit <= 0 || limit > journalMaxEntries {
		limit = journalMaxEntries
	}

	values, err := c.conn.LRange(ctx, journalKey(buyer), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	records := make([]purchase.AttemptRecord, 0, len(values))
	for _, raw := range values {
		var record purchase.AttemptRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

// Compile-time assertion that *client satisfies the purchase.Journal interface.
var _ purchase.Journal = (*client)(nil)
