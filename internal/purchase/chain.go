package purchase

import (
	"context"
	"errors"

	"github.com/openloot/packtrace/internal/mintresolve"
)

// PaymentMethod selects the currency used for a pack purchase.
type PaymentMethod string

const (
	// PaymentPrimary pays with the game's native token.
	PaymentPrimary PaymentMethod = "primary"

	// PaymentSecondary pays with the in-game reward token.
	PaymentSecondary PaymentMethod = "secondary"
)

var (
	// ErrWalletRejected indicates the user declined the transaction in their
	// wallet. Terminal; never retried.
	ErrWalletRejected = errors.New("wallet rejected the transaction")

	// ErrTransactionReverted indicates the chain accepted the transaction but
	// execution failed. Terminal; never retried.
	ErrTransactionReverted = errors.New("transaction reverted on chain")

	// ErrPurchaseInProgress indicates a purchase attempt is already in flight
	// and a new one cannot start until it finishes and is acknowledged.
	ErrPurchaseInProgress = errors.New("a purchase attempt is already in flight")

	// ErrUnknownPaymentMethod indicates an unrecognized payment method.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// ChainClient is the contract with the blockchain side of a purchase.
type ChainClient interface {
	// SubmitPurchase sends the pack purchase transaction paid with the given
	// method and returns the transaction hash once the provider accepts it.
	SubmitPurchase(ctx context.Context, method PaymentMethod) (string, error)

	// AwaitReceipt blocks until the transaction is mined and returns its
	// receipt. It may take arbitrarily long; cancellation is the caller's
	// context. Wallet rejection surfaces as ErrWalletRejected.
	AwaitReceipt(ctx context.Context, txHash string) (mintresolve.TransactionReceipt, error)
}
