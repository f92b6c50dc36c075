package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/bills"
	"github.com/frahmantamala/bill-tracking/internal/core/events"
	"github.com/frahmantamala/bill-tracking/internal/gateway"
	"github.com/frahmantamala/bill-tracking/internal/session"
	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

// workflowDeps bundles what the employee-facing commands need: the
// session identity, the gateway client and the diagnostic channel.
type workflowDeps struct {
	Config  *internal.Config
	Store   *session.Store
	Gateway *gateway.Client
	Bus     *events.Bus
}

func initWorkflowDeps() (*workflowDeps, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	log := logger.L()

	store, err := session.Open(cfg.Session.Path)
	if err != nil {
		return nil, err
	}

	client := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Gateway.Timeout,
	}, store, log)

	// the operator-facing diagnostic channel: submission failures end
	// up in the log, never in the user's face
	bus := events.NewBus(log)
	for _, eventType := range []string{events.EventBillUploadFailed, events.EventBillSubmitFailed} {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			log.Error("workflow diagnostic", "event_type", event.EventType(), "payload", event.Payload())
			return nil
		})
	}

	return &workflowDeps{
		Config:  cfg,
		Store:   store,
		Gateway: client,
		Bus:     bus,
	}, nil
}

func (d *workflowDeps) Close() {
	if err := d.Store.Close(); err != nil {
		logger.L().Error("closing session store", "error", err)
	}
}

// renderBills writes the bills view: either the table ordered newest
// first or the error message the user would see in place of it.
func renderBills(listing *bills.Listing) {
	if listing.State() == bills.StateErrored {
		fmt.Fprintf(os.Stderr, "could not load your bills: %v\n", listing.Err())
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tDATE\tAMOUNT\tSTATUS\tRECEIPT")
	for _, row := range listing.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			row.Type, row.Name, row.FormattedDate, row.Amount, row.StatusLabel, row.FileName)
	}
	w.Flush()
}
