package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/bill-tracking/internal/bills"
	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

var (
	previewCmd = &cobra.Command{
		RunE:  runPreview,
		Use:   "preview",
		Short: "Show the receipt attached to a bill",
	}
	previewBillID string
)

func init() {
	previewCmd.Flags().StringVar(&previewBillID, "bill", "", "bill id")
	previewCmd.MarkFlagRequired("bill")
}

// terminalModal stands in for the overlay widget: it prints the receipt
// location instead of rendering the image.
type terminalModal struct{}

func (terminalModal) OpenImage(url, alt string) {
	fmt.Printf("receipt %s: %s\n", alt, url)
}

func runPreview(_ *cobra.Command, _ []string) error {
	deps, err := initWorkflowDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	log := logger.L()
	listing := bills.NewListing(deps.Gateway, log)
	if err := listing.Fetch(context.Background()); err != nil {
		return err
	}

	preview := bills.NewPreview(terminalModal{}, log)
	for _, row := range listing.Rows() {
		if row.ID == previewBillID {
			preview.Open(row.FileURL, row.FileName)
			return nil
		}
	}

	return fmt.Errorf("no bill with id %s", previewBillID)
}
