// Package ethereum implements the purchase.ChainClient interface for
// Ethereum-compatible nodes using a JSON-RPC client: it submits the pack
// purchase transaction and polls for its receipt.
package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/openloot/packtrace/internal/pkg/transport/jsonrpc"
	"github.com/openloot/packtrace/internal/purchase"
)

// walletRejectedCode is the EIP-1193 error code a provider returns when the
// user declines the request in their wallet.
const walletRejectedCode = 4001

// defaultReceiptPollInterval matches the average block time of the target
// network closely enough that a mined receipt is rarely more than one poll away.
const defaultReceiptPollInterval = 4 * time.Second

// Function selectors for the pack contract's purchase entrypoints.
const (
	buyWithNativeSelector = "0xa6f2ae3a" // buy()
	buyWithTokenSelector  = "0x4b1d29b4" // buyWithGems()
)

// client implements purchase.ChainClient against an Ethereum node.
type client struct {
	conn jsonrpc.Client

	wallet       string // the buyer address the node's wallet signs for
	packContract string // address of the pack sale contract

	pollInterval time.Duration
}

var _ purchase.ChainClient = (*client)(nil)

type config struct {
	pollInterval time.Duration
}

// Option customizes the chain client built by NewClient.
type Option func(*config)

// WithReceiptPollInterval overrides how often AwaitReceipt polls the node.
func WithReceiptPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// NewClient creates a chain client that purchases packs from packContract on
// behalf of wallet, over the given JSON-RPC connection.
func NewClient(conn jsonrpc.Client, wallet, packContract string, opts ...Option) *client {
	cfg := config{
		pollInterval: defaultReceiptPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		conn:         conn,
		wallet:       wallet,
		packContract: packContract,
		pollInterval: cfg.pollInterval,
	}
}

// purchaseCalldata returns the contract calldata for the given payment method.
func purchaseCalldata(method purchase.PaymentMethod) (string, bool) {
	switch method {
	case purchase.PaymentPrimary:
		return buyWithNativeSelector, true
	case purchase.PaymentSecondary:
		return buyWithTokenSelector, true
	default:
		return "", false
	}
}

// isWalletRejected reports whether the provider error carries the EIP-1193
// user-rejected code.
func isWalletRejected(err error) bool {
	var perr *jsonrpc.ProviderError
	return errors.As(err, &perr) && perr.Code == walletRejectedCode
}

// SubmitPurchase implements purchase.ChainClient. It sends the purchase
// transaction through the node's wallet and returns the transaction hash.
// A user rejection in the wallet surfaces as purchase.ErrWalletRejected.
func (c *client) SubmitPurchase(ctx context.Context, method purchase.PaymentMethod) (string, error) {
	calldata, ok := purchaseCalldata(method)
	if !ok {
		return "", purchase.ErrUnknownPaymentMethod
	}

	params := map[string]any{
		"from": c.wallet,
		"to":   c.packContract,
		"data": calldata,
	}

	data, err := c.conn.Fetch(ctx, "eth_sendTransaction", params)
	if err != nil {
		if isWalletRejected(err) {
			return "", purchase.ErrWalletRejected
		}

		return "", err
	}

	var txHash string
	return txHash, json.Unmarshal(data, &txHash)
}
