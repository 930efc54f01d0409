package mintresolve

import (
	"github.com/openloot/packtrace/internal/pkg/types"
)

// Log is a single event-log entry from a mined transaction, as reported by
// the node. Topics are the indexed event fields; Data carries the rest of the
// ABI-encoded payload.
type Log struct {
	Address string      // contract address that emitted the event
	Topics  []types.Hex // indexed event fields; topic 0 is the event signature
	Data    string      // ABI-encoded non-indexed fields (unused by the extractors)
}

// TransactionReceipt is the mined outcome of a pack purchase transaction.
// It is produced by the chain client and read-only to the resolver.
type TransactionReceipt struct {
	TransactionHash string // hash of the purchase transaction
	Buyer           string // address that submitted the purchase
	Succeeded       bool   // whether the transaction executed without reverting
	Logs            []Log  // event logs in emission order
}

// transferEventSignature is keccak256("Transfer(address,address,uint256)"),
// the topic-0 value shared by ERC-20 and ERC-721 transfer events. A transfer
// whose "from" topic is the zero address is a mint.
const transferEventSignature types.Hex = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// packMintedEventSignatures lists topic-0 hashes known to correspond to the
// pack contract's "pack minted" event across deployed contract versions.
// The exact signature of the current contract has not been confirmed against
// its ABI, which is why ExtractPackID keeps a structural fallback.
var packMintedEventSignatures = []types.Hex{
	"0x3154e9b339b23fc2be4036f4b0b0af2f9f56da0a53dbf5ff2d4c786a6c35a96c",
	"0x8fe36f5b15b50cd9b3c1e1a53a7e589bd06c2b4ecb697318a9e8b33c0a46c13f",
}

// maxHeuristicPackID bounds the structural pack-id heuristic. Pack ids are
// sequential and small; any topic-3 value at or beyond this bound is assumed
// to be something else (an amount, a token id, a hash fragment).
const maxHeuristicPackID = 1_000_000

// isPackMintedSignature reports whether topic 0 matches a known pack-minted
// event signature, ignoring hex case.
func isPackMintedSignature(topic types.Hex) bool {
	for _, sig := range packMintedEventSignatures {
		if topic.EqualFold(sig) {
			return true
		}
	}
	return false
}

// ExtractPackID attempts to recover the minted pack's identifier from the
// receipt's event logs.
//
// A log is a structural candidate when it carries at least 3 topics and its
// third topic decodes to an integer in (0, maxHeuristicPackID). Among
// candidates, a log whose signature topic matches packMintedEventSignatures
// wins; when none match, the first structural candidate in log order is used.
//
// The structural fallback is deliberately permissive: any sufficiently small
// integer in topic position 3 qualifies, so it can produce false positives.
// That imprecision is accepted because event shapes differ across contract
// versions, and a wrong pack id is caught downstream by the strict item-count
// check before it can surface to the buyer.
//
// The function is pure and total: it never panics, and returns ok=false when
// no candidate exists.
func ExtractPackID(receipt TransactionReceipt) (packID int64, ok bool) {
	var (
		fallback      int64
		fallbackFound bool
	)

	for _, log := range receipt.Logs {
		if len(log.Topics) < 3 {
			continue
		}

		v, valid := log.Topics[2].Int()
		if !valid || v <= 0 || v >= maxHeuristicPackID {
			continue
		}

		if isPackMintedSignature(log.Topics[0]) {
			return v, true
		}

		if !fallbackFound {
			fallback, fallbackFound = v, true
		}
	}

	return fallback, fallbackFound
}

// ExtractItemIDs recovers the identifiers of all items minted by the
// transaction, by scanning for transfer events whose "from" topic is the zero
// address. The zero-address check is definitive for "newly minted", so there
// is no whitelist ambiguity here; the fourth topic of each matching log is
// the token id.
//
// IDs are returned in log order. The function is pure and total: malformed
// topics and short topic lists are skipped, and an empty receipt yields an
// empty result.
func ExtractItemIDs(receipt TransactionReceipt) []int64 {
	var ids []int64

	for _, log := range receipt.Logs {
		if len(log.Topics) < 4 {
			continue
		}

		if !log.Topics[0].EqualFold(transferEventSignature) {
			continue
		}

		if !log.Topics[1].IsZero() {
			continue
		}

		id, valid := log.Topics[3].Int()
		if !valid {
			continue
		}

		ids = append(ids, id)
	}

	return ids
}
