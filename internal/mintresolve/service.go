// Package mintresolve determines which newly minted items belong to a pack
// purchase. Event-log shapes are not guaranteed stable across contract
// versions, so resolution degrades through three sources: the pack id parsed
// from the receipt (precise and fast), the minted item ids parsed from
// transfer logs (precise but needs an indexer settling delay), and finally
// polling the buyer's recent packs (imprecise and slow, but eventually
// correct whenever the chain state actually changed).
package mintresolve

import (
	"context"
	"errors"
	"time"

	"github.com/openloot/packtrace/internal/pkg/logger"
	"github.com/openloot/packtrace/internal/pkg/resilience/retry"
	"github.com/openloot/packtrace/internal/pkg/types"
)

// ErrResolutionFailed is returned when every resolution source has been
// exhausted without producing a usable item set. It is the only error Resolve
// surfaces; source-internal failures drive fallback instead.
var ErrResolutionFailed = errors.New("all resolution sources exhausted without a usable item set")

var (
	// errItemsNotIndexed drives retries while the catalog has not yet indexed
	// any of the minted item ids.
	errItemsNotIndexed = errors.New("catalog has not indexed any of the minted items yet")

	// errNoQualifyingPack drives polling retries while no fresh pack beyond
	// the baseline has appeared for the buyer.
	errNoQualifyingPack = errors.New("no new pack observed for buyer")
)

const (
	// packFetchAttempts bounds pack-record fetches; downstream indexing may
	// lag the chain by a few seconds.
	packFetchAttempts = 5

	// itemFetchAttempts bounds batched item fetches after a mint.
	itemFetchAttempts = 8

	// pollAttempts bounds the recent-packs polling fallback.
	pollAttempts = 15

	// defaultSettlingDelay is how long to wait after extracting minted item
	// ids before querying the catalog, so the indexer can catch up.
	defaultSettlingDelay = 3 * time.Second

	// pollBackoffBase is the linear backoff unit for the polling fallback:
	// attempt n waits n times this value.
	pollBackoffBase = 2 * time.Second

	// fetchRetryDelay is the fixed inter-attempt delay for pack and item
	// fetches. Indexing lag is roughly constant, so the delay does not grow.
	fetchRetryDelay = 2 * time.Second

	// defaultMaxPackAge is how recent a polled pack must be to count as the
	// result of this purchase rather than an older one.
	defaultMaxPackAge = 5 * time.Minute
)

// Service resolves a mined purchase receipt to the hydrated catalog items the
// purchase produced.
type Service interface {
	// Resolve determines which items the purchase minted and returns their
	// full catalog records. expectedItemCount is the number of items a pack
	// of this kind mints.
	//
	// Resolve always terminates within the bounded per-source budgets: it
	// returns a non-empty item list or ErrResolutionFailed.
	Resolve(ctx context.Context, receipt TransactionReceipt, expectedItemCount int) ([]CatalogItem, error)
}

type service struct {
	catalog Catalog

	packRetry retry.Retry // bounds pack-record fetches
	itemRetry retry.Retry // bounds batched item fetches
	pollRetry retry.Retry // bounds the recent-packs polling loop

	settlingDelay time.Duration
	maxPackAge    time.Duration
	now           func() time.Time
}

var _ Service = (*service)(nil)

type config struct {
	packRetry     retry.Retry
	itemRetry     retry.Retry
	pollRetry     retry.Retry
	settlingDelay time.Duration
	maxPackAge    time.Duration
	now           func() time.Time
}

// Option customizes the resolver built by New.
type Option func(*config)

// New builds a resolver backed by the given catalog. Defaults follow the
// per-source budgets above; options exist mainly so tests can shrink delays.
func New(catalog Catalog, opts ...Option) *service {
	cfg := config{
		packRetry: retry.New(
			retry.WithAttempts(packFetchAttempts),
			retry.WithDelay(fetchRetryDelay),
			retry.WithDelayPolicy(retry.DelayPolicyFixed),
		),
		itemRetry: retry.New(
			retry.WithAttempts(itemFetchAttempts),
			retry.WithDelay(fetchRetryDelay),
			retry.WithDelayPolicy(retry.DelayPolicyFixed),
		),
		pollRetry: retry.New(
			retry.WithAttempts(pollAttempts),
			retry.WithDelay(pollBackoffBase),
			retry.WithDelayPolicy(retry.DelayPolicyLinear),
		),
		settlingDelay: defaultSettlingDelay,
		maxPackAge:    defaultMaxPackAge,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		catalog:       catalog,
		packRetry:     cfg.packRetry,
		itemRetry:     cfg.itemRetry,
		pollRetry:     cfg.pollRetry,
		settlingDelay: cfg.settlingDelay,
		maxPackAge:    cfg.maxPackAge,
		now:           cfg.now,
	}
}

// WithPackRetry overrides the retry budget for pack-record fetches.
func WithPackRetry(r retry.Retry) Option {
	return func(c *config) {
		c.packRetry = r
	}
}

// WithItemRetry overrides the retry budget for batched item fetches.
func WithItemRetry(r retry.Retry) Option {
	return func(c *config) {
		c.itemRetry = r
	}
}

// WithPollRetry overrides the retry budget for the recent-packs polling loop.
func WithPollRetry(r retry.Retry) Option {
	return func(c *config) {
		c.pollRetry = r
	}
}

// WithSettlingDelay overrides the indexer settling delay applied before the
// minted-item-ids fetch.
func WithSettlingDelay(d time.Duration) Option {
	return func(c *config) {
		c.settlingDelay = d
	}
}

// WithMaxPackAge overrides the freshness window for polled packs.
func WithMaxPackAge(d time.Duration) Option {
	return func(c *config) {
		c.maxPackAge = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// Resolve implements Service. Sources run strictly in order, each attempted
// only when the previous one produced no usable result; "no usable result"
// covers both errors and empty-but-successful answers.
func (s *service) Resolve(ctx context.Context, receipt TransactionReceipt, expectedItemCount int) ([]CatalogItem, error) {
	if items, ok := s.resolveByPackID(ctx, receipt, expectedItemCount); ok {
		return items, nil
	}

	if items, ok := s.resolveByMintedItemIDs(ctx, receipt); ok {
		return items, nil
	}

	if items, ok := s.resolveByPollingRecentPacks(ctx, receipt); ok {
		return items, nil
	}

	return nil, ErrResolutionFailed
}

// resolveByPackID fetches the pack record named by the receipt's pack-mint
// log. The item count must match exactly: the pack-id heuristic can produce
// false positives, and a count mismatch is the signal that it did (or that
// indexing is still partial), so the result is discarded rather than
// partially accepted.
func (s *service) resolveByPackID(ctx context.Context, receipt TransactionReceipt, expectedItemCount int) ([]CatalogItem, bool) {
	packID, ok := ExtractPackID(receipt)
	if !ok {
		logger.Debug(ctx, "no pack id candidate in receipt logs", "tx_hash", receipt.TransactionHash)
		return nil, false
	}

	pack, err := s.fetchPack(ctx, packID)
	if err != nil {
		logger.Warn(ctx, "pack fetch exhausted, deferring to minted item ids",
			"tx_hash", receipt.TransactionHash,
			"pack_id", packID,
			"error", err,
		)
		return nil, false
	}

	if len(pack.Items) != expectedItemCount {
		logger.Warn(ctx, "pack item count mismatch, deferring to minted item ids",
			"pack_id", packID,
			"got", len(pack.Items),
			"want", expectedItemCount,
		)
		return nil, false
	}

	return pack.Items, true
}

// resolveByMintedItemIDs fetches the items named by the receipt's
// transfer-from-zero logs. Unlike the pack-id source this one is tolerant of
// a count mismatch: the transfer logs are ground truth about which ids were
// minted, the catalog just may not have indexed all of them yet.
func (s *service) resolveByMintedItemIDs(ctx context.Context, receipt TransactionReceipt) ([]CatalogItem, bool) {
	ids := dedupeIDs(ExtractItemIDs(receipt))
	if len(ids) == 0 {
		logger.Debug(ctx, "no minted item ids in receipt logs", "tx_hash", receipt.TransactionHash)
		return nil, false
	}

	if err := s.wait(ctx, s.settlingDelay); err != nil {
		return nil, false
	}

	var items []CatalogItem
	err := s.itemRetry.Execute(ctx, func() error {
		fetched, err := s.catalog.GetItemsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(fetched) == 0 {
			return errItemsNotIndexed
		}

		items = fetched
		return nil
	})
	if err != nil {
		logger.Warn(ctx, "minted item fetch exhausted, deferring to pack polling",
			"tx_hash", receipt.TransactionHash,
			"item_ids", ids,
			"error", err,
		)
		return nil, false
	}

	if len(items) < len(ids) {
		logger.Info(ctx, "catalog returned a partial item set, accepting it",
			"got", len(items),
			"want", len(ids),
		)
	}

	return items, true
}

// resolveByPollingRecentPacks watches the buyer's pack history until a pack
// newer than the pre-poll baseline shows up. A pack only qualifies when the
// total grew beyond the baseline and the newest record is fresh; without the
// freshness guard a buyer's older pack could be misattributed to this
// purchase.
func (s *service) resolveByPollingRecentPacks(ctx context.Context, receipt TransactionReceipt) ([]CatalogItem, bool) {
	baseline := s.recentPackBaseline(ctx, receipt.Buyer)

	var packID int64
	err := s.pollRetry.Execute(ctx, func() error {
		recent, err := s.catalog.GetRecentPacksForBuyer(ctx, receipt.Buyer)
		if err != nil {
			return err
		}

		if recent.Total <= baseline || len(recent.Packs) == 0 {
			return errNoQualifyingPack
		}

		newest := recent.Packs[0]
		if s.now().Sub(newest.PurchasedAt) > s.maxPackAge {
			return errNoQualifyingPack
		}

		packID = newest.PackID
		return nil
	})
	if err != nil {
		logger.Warn(ctx, "pack polling exhausted",
			"tx_hash", receipt.TransactionHash,
			"buyer", receipt.Buyer,
			"baseline", baseline,
			"error", err,
		)
		return nil, false
	}

	// Hydrate the polled pack the same way the pack-id source does, but
	// accept any non-empty item set: the poll already proved the pack
	// belongs to this buyer and purchase window, and there is no further
	// source to defer to.
	pack, err := s.fetchPack(ctx, packID)
	if err != nil || len(pack.Items) == 0 {
		logger.Warn(ctx, "polled pack hydration failed",
			"pack_id", packID,
			"error", err,
		)
		return nil, false
	}

	return pack.Items, true
}

// fetchPack retrieves a pack record within the pack-fetch retry budget.
func (s *service) fetchPack(ctx context.Context, packID int64) (PackRecord, error) {
	var pack PackRecord
	err := s.packRetry.Execute(ctx, func() error {
		p, err := s.catalog.GetPackByID(ctx, packID)
		if err != nil {
			return err
		}

		pack = p
		return nil
	})

	return pack, err
}

// recentPackBaseline records the buyer's pack total before polling begins.
// When the baseline cannot be established, zero is used: any fresh pack then
// qualifies, and the freshness guard still keeps old packs out.
func (s *service) recentPackBaseline(ctx context.Context, buyer string) int {
	recent, err := s.catalog.GetRecentPacksForBuyer(ctx, buyer)
	if err != nil {
		logger.Warn(ctx, "could not establish pack baseline, assuming zero", "buyer", buyer, "error", err)
		return 0
	}

	return recent.Total
}

// wait sleeps for d unless the context is canceled first.
func (s *service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// dedupeIDs drops duplicate ids while preserving first-seen order. Batch
// contracts sometimes emit one transfer per item plus a consolidated batch
// event that repeats ids.
func dedupeIDs(ids []int64) []int64 {
	seen := types.NewSet[int64]()
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen.Has(id) {
			continue
		}

		seen.Add(id)
		out = append(out, id)
	}

	return out
}
