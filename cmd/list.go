package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/bill-tracking/internal/bills"
	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

var listCmd = &cobra.Command{
	RunE:  runList,
	Use:   "list",
	Short: "Show your submitted bills, newest first",
}

func runList(_ *cobra.Command, _ []string) error {
	deps, err := initWorkflowDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	listing := bills.NewListing(deps.Gateway, logger.L())
	// fetch failures render as the error view, not a command error
	_ = listing.Fetch(context.Background())
	renderBills(listing)
	return nil
}
