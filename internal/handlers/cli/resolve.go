package cli

import (
	"context"
	"fmt"

	"github.com/openloot/packtrace/internal/purchase"

	"github.com/urfave/cli/v3"
)

// resolveTransactionCommand returns a CLI command that re-runs item
// resolution for an already mined purchase transaction. This is the manual
// retry for a purchase whose original resolution exhausted every source.
//
// Usage example:
//
//	packtrace resolve --tx 0xabc123...
func resolveTransactionCommand(svc purchase.Service) *cli.Command {
	return &cli.Command{
		Name:        "resolve",
		Description: "Re-runs minted item resolution for a mined purchase transaction.",
		Usage:       "Fetches the transaction's receipt and resolves the items it minted. Must provide the transaction hash.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tx",
				Usage:    "Hash of the mined purchase transaction",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			items, err := svc.ResolveTransaction(ctx, c.String("tx"))
			if err != nil {
				return err
			}

			fmt.Printf("resolved %d items\n", len(items))
			for _, item := range items {
				fmt.Printf("  #%d %s (%s, %s)\n", item.ID, item.DisplayName, item.Category, item.RarityTier)
			}

			return nil
		},
	}
}
