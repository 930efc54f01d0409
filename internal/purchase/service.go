// Package purchase orchestrates a pack purchase end to end: submit the
// transaction, wait for it to mine, hand the receipt to the resolver, and
// drive the observable state machine through the whole flow.
package purchase

import (
	"context"

	"github.com/openloot/packtrace/internal/mintresolve"
	"github.com/openloot/packtrace/internal/pkg/logger"
)

// defaultExpectedItemCount is how many items a standard pack mints.
const defaultExpectedItemCount = 5

// Service runs purchase attempts for a single buyer.
type Service interface {
	// Buy submits a pack purchase and blocks until the attempt reaches a
	// terminal state, returning the hydrated items on success. It returns
	// ErrPurchaseInProgress when an unacknowledged attempt is still live.
	Buy(ctx context.Context, method PaymentMethod) ([]mintresolve.CatalogItem, error)

	// ResolveTransaction re-runs resolution for an already mined purchase
	// transaction, the manual-retry affordance for a purchase whose
	// resolution previously exhausted. It does not touch the state machine.
	ResolveTransaction(ctx context.Context, txHash string) ([]mintresolve.CatalogItem, error)

	// Acknowledge resets a terminal attempt back to idle so a new purchase
	// can start. It reports whether a reset actually happened.
	Acknowledge(ctx context.Context) bool

	// History returns the buyer's most recent journaled attempts.
	History(ctx context.Context, limit int) ([]AttemptRecord, error)

	// Machine exposes the state machine for observers (progress displays,
	// reveal animations). Observers must not dispatch events.
	Machine() *Machine
}

type service struct {
	chain    ChainClient
	resolver mintresolve.Service
	machine  *Machine
	notifier Notifier
	journal  Journal

	buyer             string
	expectedItemCount int
}

var _ Service = (*service)(nil)

type config struct {
	notifier          Notifier
	journal           Journal
	expectedItemCount int
}

// Option customizes the purchase service built by New.
type Option func(*config)

// New builds a purchase service for the given buyer address.
func New(chain ChainClient, resolver mintresolve.Service, buyer string, opts ...Option) *service {
	cfg := config{
		notifier:          logNotifier{},
		journal:           nopJournal{},
		expectedItemCount: defaultExpectedItemCount,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		chain:             chain,
		resolver:          resolver,
		machine:           NewMachine(),
		notifier:          cfg.notifier,
		journal:           cfg.journal,
		buyer:             buyer,
		expectedItemCount: cfg.expectedItemCount,
	}
}

// WithNotifier overrides the default logging notifier.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithJournal sets the attempt journal. Without one, attempts are not persisted.
func WithJournal(j Journal) Option {
	return func(c *config) {
		c.journal = j
	}
}

// WithExpectedItemCount overrides how many items a pack is expected to mint.
func WithExpectedItemCount(n int) Option {
	return func(c *config) {
		c.expectedItemCount = n
	}
}

// Machine implements Service.
func (s *service) Machine() *Machine {
	return s.machine
}

// dispatch applies the event and forwards the resulting transition to the
// notifier. Notifier failures are logged and otherwise ignored; a lost toast
// must not affect the purchase.
func (s *service) dispatch(ctx context.Context, ev Event) bool {
	t, ok := s.machine.Dispatch(ev)
	if !ok {
		return false
	}

	if err := s.notifier.NotifyPurchaseUpdated(ctx, t); err != nil {
		logger.Warn(ctx, "purchase notification failed",
			"event", ev.Kind.String(),
			"error", err,
		)
	}

	return true
}

// Buy implements Service. Every code path finalizes the attempt and leaves
// the machine in a terminal state; the machine is never left in resolving.
func (s *service) Buy(ctx context.Context, method PaymentMethod) ([]mintresolve.CatalogItem, error) {
	if method != PaymentPrimary && method != PaymentSecondary {
		return nil, ErrUnknownPaymentMethod
	}

	if !s.dispatch(ctx, Event{Kind: EventInitiate}) {
		return nil, ErrPurchaseInProgress
	}

	att := newAttempt(s.buyer, method)

	txHash, err := s.chain.SubmitPurchase(ctx, method)
	if err != nil {
		return nil, s.fail(ctx, att, Event{Kind: EventSubmitFailed, Err: err}, err)
	}

	att.setTxHash(txHash)
	s.dispatch(ctx, Event{Kind: EventWalletAccepted, TxHash: txHash})

	receipt, err := s.chain.AwaitReceipt(ctx, txHash)
	if err != nil {
		return nil, s.fail(ctx, att, Event{Kind: EventReceiptFailure, TxHash: txHash, Err: err}, err)
	}

	if !receipt.Succeeded {
		err := ErrTransactionReverted
		return nil, s.fail(ctx, att, Event{Kind: EventReceiptFailure, TxHash: txHash, Err: err}, err)
	}

	if receipt.Buyer == "" {
		receipt.Buyer = s.buyer
	}

	s.dispatch(ctx, Event{Kind: EventReceiptSuccess, TxHash: txHash})

	items, err := s.resolver.Resolve(ctx, receipt, s.expectedItemCount)
	if err != nil {
		return nil, s.fail(ctx, att, Event{Kind: EventResolutionFailed, TxHash: txHash, Err: err}, err)
	}

	att.setSucceeded(items)
	s.dispatch(ctx, Event{Kind: EventResolved, TxHash: txHash, Items: items})
	s.journalAttempt(ctx, att)

	return items, nil
}

// fail finalizes the attempt, drives the machine to failed, journals the
// outcome, and returns the terminal error for the caller.
func (s *service) fail(ctx context.Context, att *attempt, ev Event, err error) error {
	att.setFailed(err)
	s.dispatch(ctx, ev)
	s.journalAttempt(ctx, att)
	return err
}

// journalAttempt records a finalized attempt, best-effort.
func (s *service) journalAttempt(ctx context.Context, att *attempt) {
	if err := s.journal.RecordAttempt(ctx, att.toRecord()); err != nil {
		logger.Warn(ctx, "attempt journaling failed",
			"attempt_id", att.id,
			"error", err,
		)
	}
}

// ResolveTransaction implements Service.
func (s *service) ResolveTransaction(ctx context.Context, txHash string) ([]mintresolve.CatalogItem, error) {
	receipt, err := s.chain.AwaitReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}

	if !receipt.Succeeded {
		return nil, ErrTransactionReverted
	}

	if receipt.Buyer == "" {
		receipt.Buyer = s.buyer
	}

	return s.resolver.Resolve(ctx, receipt, s.expectedItemCount)
}

// Acknowledge implements Service.
func (s *service) Acknowledge(ctx context.Context) bool {
	return s.dispatch(ctx, Event{Kind: EventReset})
}

// History implements Service.
func (s *service) History(ctx context.Context, limit int) ([]AttemptRecord, error) {
	return s.journal.ListRecentAttempts(ctx, s.buyer, limit)
}
