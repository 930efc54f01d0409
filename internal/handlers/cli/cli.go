// Package cli exposes the purchase flow as a command-line interface.
package cli

import (
	"context"
	"os"

	"github.com/openloot/packtrace/internal/purchase"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the packtrace CLI application.
//
// It registers all available commands:
//
//   - `buy`: purchases a pack and resolves its minted items.
//   - `resolve`: re-runs resolution for an already mined purchase transaction.
//   - `history`: prints the buyer's recent journaled attempts.
//
// This function sets up shell completion and invokes the CLI framework to
// parse and run commands.
func Run(ctx context.Context, svc purchase.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "packtrace",
		Description:           "Command-line interface for purchasing collectible packs and resolving their minted items.",
		Usage:                 "packtrace [command] [flags]",
		Commands: []*cli.Command{
			buyPackCommand(svc),
			resolveTransactionCommand(svc),
			purchaseHistoryCommand(svc),
		},
	}

	return app.Run(ctx, os.Args)
}
