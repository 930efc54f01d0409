package purchase

import (
	"context"
	"time"
)

// AttemptRecord is the journaled outcome of a finalized purchase attempt.
// Records exist so a buyer's history survives restarts and so a failed
// resolution can be retried later against the same transaction.
type AttemptRecord struct {
	AttemptID     string        `json:"attempt_id"`
	Buyer         string        `json:"buyer"`
	TxHash        string        `json:"tx_hash,omitempty"`
	Payment       PaymentMethod `json:"payment"`
	Outcome       string        `json:"outcome"` // "succeeded" or "failed"
	FailureReason string        `json:"failure_reason,omitempty"`
	ItemIDs       []int64       `json:"item_ids,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
}

// Journal persists finalized purchase attempts. Implementations are
// best-effort from the purchase flow's point of view: a journal failure is
// logged and never fails the purchase itself.
type Journal interface {
	// RecordAttempt appends a finalized attempt to the buyer's history.
	RecordAttempt(ctx context.Context, record AttemptRecord) error

	// ListRecentAttempts returns up to limit of the buyer's most recent
	// attempts, newest first.
	ListRecentAttempts(ctx context.Context, buyer string, limit int) ([]AttemptRecord, error)
}

// nopJournal discards records; used when no persistence is configured.
type nopJournal struct{}

var _ Journal = (*nopJournal)(nil)

func (nopJournal) RecordAttempt(ctx context.Context, record AttemptRecord) error {
	return nil
}

func (nopJournal) ListRecentAttempts(ctx context.Context, buyer string, limit int) ([]AttemptRecord, error) {
	return nil, nil
}
