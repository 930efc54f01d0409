package cli

import (
	"context"
	"fmt"

	"github.com/openloot/packtrace/internal/purchase"

	"github.com/urfave/cli/v3"
)

// purchaseHistoryCommand returns a CLI command that prints the buyer's most
// recent journaled purchase attempts, newest first.
//
// Usage example:
//
//	packtrace history --limit 10
func purchaseHistoryCommand(svc purchase.Service) *cli.Command {
	return &cli.Command{
		Name:        "history",
		Description: "Prints the buyer's recent purchase attempts from the journal.",
		Usage:       "Lists journaled attempts, newest first.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of attempts to print",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			records, err := svc.History(ctx, int(c.Int("limit")))
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("no journaled purchase attempts")
				return nil
			}

			for _, record := range records {
				line := fmt.Sprintf("%s  %-9s  payment=%s", record.FinishedAt.Format("2006-01-02 15:04:05"), record.Outcome, record.Payment)
				if record.TxHash != "" {
					line += "  tx=" + record.TxHash
				}
				if record.Outcome == "failed" {
					line += "  reason=" + record.FailureReason
				} else {
					line += fmt.Sprintf("  items=%v", record.ItemIDs)
				}

				fmt.Println(line)
			}

			return nil
		},
	}
}
