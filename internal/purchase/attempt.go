package purchase

import (
	"time"

	"github.com/openloot/packtrace/internal/mintresolve"

	"github.com/google/uuid"
)

// attempt tracks the lifecycle of a single purchase from initiation to a
// terminal outcome. Exactly one attempt is live per service at a time; the
// machine's initiate guard enforces that.
type attempt struct {
	id         string        // unique attempt identifier (UUIDv7)
	buyer      string        // purchasing address
	payment    PaymentMethod // currency used
	txHash     string        // set once the provider accepts the submission
	startedAt  time.Time     // when the attempt was initiated
	finishedAt *time.Time    // when the attempt was finalized (nil while live)
	items      []mintresolve.CatalogItem
	err        error
	finalized  bool
}

// newAttempt creates a live attempt for the given buyer and payment method.
func newAttempt(buyer string, payment PaymentMethod) *attempt {
	return &attempt{
		id:        uuid.Must(uuid.NewV7()).String(),
		buyer:     buyer,
		payment:   payment,
		startedAt: time.Now().UTC(),
	}
}

// setTxHash records the transaction hash. No-op once finalized.
func (a *attempt) setTxHash(h string) {
	if a.finalized {
		return
	}

	a.txHash = h
}

// setSucceeded finalizes the attempt with its resolved items. No-op once finalized.
func (a *attempt) setSucceeded(items []mintresolve.CatalogItem) {
	if a.finalized {
		return
	}

	now := time.Now().UTC()

	a.finalized = true
	a.finishedAt = &now
	a.items = items
	a.err = nil
}

// setFailed finalizes the attempt with its terminal error. No-op once finalized.
func (a *attempt) setFailed(err error) {
	if a.finalized {
		return
	}

	now := time.Now().UTC()

	a.finalized = true
	a.finishedAt = &now
	a.err = err
}

// toRecord converts a finalized attempt into its journal form. It returns a
// zero record if the attempt is still live.
func (a *attempt) toRecord() AttemptRecord {
	if !a.finalized {
		return AttemptRecord{}
	}

	record := AttemptRecord{
		AttemptID:  a.id,
		Buyer:      a.buyer,
		TxHash:     a.txHash,
		Payment:    a.payment,
		Outcome:    "succeeded",
		StartedAt:  a.startedAt,
		FinishedAt: *a.finishedAt,
	}

	if a.err != nil {
		record.Outcome = "failed"
		record.FailureReason = a.err.Error()
		return record
	}

	record.ItemIDs = make([]int64, len(a.items))
	for i, item := range a.items {
		record.ItemIDs[i] = item.ID
	}

	return record
}
