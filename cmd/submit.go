package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/bill-tracking/internal/bills"
	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

var (
	submitCmd = &cobra.Command{
		RunE:  runSubmit,
		Use:   "submit",
		Short: "Submit a new expense bill with its receipt",
	}
	submitReceipt    string
	submitType       string
	submitName       string
	submitDate       string
	submitAmount     float64
	submitVAT        float64
	submitPct        float64
	submitCommentary string
)

func init() {
	submitCmd.Flags().StringVar(&submitReceipt, "receipt", "", "path to the receipt image (jpg, jpeg or png)")
	submitCmd.Flags().StringVar(&submitType, "type", "", "expense category, e.g. Transports")
	submitCmd.Flags().StringVar(&submitName, "name", "", "short description")
	submitCmd.Flags().StringVar(&submitDate, "date", "", "expense date (yyyy-mm-dd)")
	submitCmd.Flags().Float64Var(&submitAmount, "amount", 0, "amount")
	submitCmd.Flags().Float64Var(&submitVAT, "vat", 0, "tax amount")
	submitCmd.Flags().Float64Var(&submitPct, "pct", 0, "tax percentage")
	submitCmd.Flags().StringVar(&submitCommentary, "commentary", "", "free-text commentary")
	submitCmd.MarkFlagRequired("type")
	submitCmd.MarkFlagRequired("name")
	submitCmd.MarkFlagRequired("date")
}

func runSubmit(_ *cobra.Command, _ []string) error {
	deps, err := initWorkflowDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	log := logger.L()
	ctx := context.Background()

	// navigation swaps to the bills view once the form is handed off
	navigate := func(route bills.Route) {
		if route != bills.RouteBills {
			return
		}
		listing := bills.NewListing(deps.Gateway, log)
		_ = listing.Fetch(ctx)
		renderBills(listing)
	}

	submission := bills.NewSubmission(deps.Gateway, deps.Store, navigate, deps.Bus, log)

	if submitReceipt != "" {
		file, err := os.Open(submitReceipt)
		if err != nil {
			return fmt.Errorf("opening receipt: %w", err)
		}
		uploaded := submission.SelectFile(ctx, filepath.Base(submitReceipt), file)
		<-uploaded
		file.Close()

		if submission.FileURL() == "" {
			// the workflow does not hard-block on this; mirror that,
			// but tell the user what is about to happen
			fmt.Fprintln(os.Stderr, "warning: receipt was not accepted, submitting without one")
		}
	}

	submitted := submission.SubmitForm(ctx, bills.FormData{
		Type:       submitType,
		Name:       submitName,
		Date:       submitDate,
		Amount:     submitAmount,
		VAT:        submitVAT,
		Pct:        submitPct,
		Commentary: submitCommentary,
	})

	// the view has already moved on; hold the process open until the
	// fire-and-forget update settles so its outcome gets reported
	<-submitted
	return nil
}
