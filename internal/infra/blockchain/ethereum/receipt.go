package ethereum

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openloot/packtrace/internal/mintresolve"
	"github.com/openloot/packtrace/internal/pkg/types"
	"github.com/openloot/packtrace/internal/purchase"
)

type (
	// LogResponse represents a raw event log as returned by
	// eth_getTransactionReceipt.
	LogResponse struct {
		Address  string      `json:"address"`
		Topics   []types.Hex `json:"topics"`
		Data     string      `json:"data"`
		LogIndex types.Hex   `json:"logIndex"`
		Removed  bool        `json:"removed"`
	}

	// ReceiptResponse represents the raw transaction receipt object returned
	// by the Ethereum JSON-RPC API. Only the fields the resolver consumes are
	// decoded.
	ReceiptResponse struct {
		TransactionHash string        `json:"transactionHash"`
		BlockNumber     types.Hex     `json:"blockNumber"`
		From            string        `json:"from"`
		To              string        `json:"to"`
		Status          types.Hex     `json:"status"`
		Logs            []LogResponse `json:"logs"`
	}
)

// toResolverLog converts a raw log into the resolver's log shape.
func (l LogResponse) toResolverLog() mintresolve.Log {
	return mintresolve.Log{
		Address: l.Address,
		Topics:  l.Topics,
		Data:    l.Data,
	}
}

// toResolverReceipt converts a raw receipt into the resolver's receipt shape.
// Status 1 means the transaction executed without reverting.
func (r ReceiptResponse) toResolverReceipt() mintresolve.TransactionReceipt {
	logs := make([]mintresolve.Log, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.toResolverLog()
	}

	status, _ := r.Status.Int()

	return mintresolve.TransactionReceipt{
		TransactionHash: r.TransactionHash,
		Buyer:           r.From,
		Succeeded:       status == 1,
		Logs:            logs,
	}
}

// getTransactionReceipt fetches the receipt for txHash. The second return
// value is false while the transaction is still pending (the node answers
// with a null result).
func (c *client) getTransactionReceipt(ctx context.Context, txHash string) (ReceiptResponse, bool, error) {
	data, err := c.conn.Fetch(ctx, "eth_getTransactionReceipt", txHash)
	if err != nil {
		return ReceiptResponse{}, false, err
	}

	if len(data) == 0 || string(data) == "null" {
		return ReceiptResponse{}, false, nil
	}

	var receipt ReceiptResponse
	if err := json.Unmarshal(data, &receipt); err != nil {
		return ReceiptResponse{}, false, err
	}

	return receipt, true, nil
}

// AwaitReceipt implements purchase.ChainClient. It polls the node until the
// transaction is mined, the provider reports a wallet rejection, or the
// context is canceled. There is no internal deadline: a transaction may sit
// in the mempool arbitrarily long, and giving up belongs to the caller.
func (c *client) AwaitReceipt(ctx context.Context, txHash string) (mintresolve.TransactionReceipt, error) {
	for {
		receipt, found, err := c.getTransactionReceipt(ctx, txHash)
		if err != nil {
			if isWalletRejected(err) {
				return mintresolve.TransactionReceipt{}, purchase.ErrWalletRejected
			}

			return mintresolve.TransactionReceipt{}, err
		}

		if found {
			return receipt.toResolverReceipt(), nil
		}

		select {
		case <-ctx.Done():
			return mintresolve.TransactionReceipt{}, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
