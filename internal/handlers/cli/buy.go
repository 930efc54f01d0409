package cli

import (
	"context"
	"fmt"

	"github.com/openloot/packtrace/internal/pkg/logger"
	"github.com/openloot/packtrace/internal/pkg/x/chflow"
	"github.com/openloot/packtrace/internal/purchase"

	"github.com/urfave/cli/v3"
)

// transitionChannelBufferSize buffers machine transitions so a slow consumer
// never stalls the purchase flow.
const transitionChannelBufferSize = 10

// buyPackCommand returns a CLI command that purchases a pack and blocks until
// its minted items are resolved or the attempt terminally fails.
//
// Usage example:
//
//	packtrace buy --payment primary
func buyPackCommand(svc purchase.Service) *cli.Command {
	return &cli.Command{
		Name:        "buy",
		Description: "Purchases a collectible pack and resolves the items it minted.",
		Usage:       "Submits the purchase transaction, waits for it to mine, and prints the resolved items.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "payment",
				Usage: "Payment method: primary (native token) or secondary (reward token)",
				Value: string(purchase.PaymentPrimary),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			method := purchase.PaymentMethod(c.String("payment"))

			transitionsCh := make(chan purchase.Transition, transitionChannelBufferSize)
			unsubscribe := svc.Machine().Subscribe(func(t purchase.Transition) {
				chflow.Send(ctx, transitionsCh, t)
			})
			defer unsubscribe()

			go func() {
				for {
					t, ok := chflow.Receive(ctx, transitionsCh)
					if !ok {
						return
					}

					logger.Info(ctx, "purchase progress", "state", t.To.String())
				}
			}()

			items, err := svc.Buy(ctx, method)
			defer svc.Acknowledge(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("pack opened: %d items\n", len(items))
			for _, item := range items {
				fmt.Printf("  #%d %s (%s, %s)\n", item.ID, item.DisplayName, item.Category, item.RarityTier)
			}

			return nil
		},
	}
}
