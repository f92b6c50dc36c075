package bills

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ListingState is the view state of the bills table.
type ListingState int

const (
	StateLoading ListingState = iota
	StateLoaded
	StateErrored
)

func (s ListingState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// BillRow is one rendered line of the bills table. Date keeps the raw
// value used for ordering; FormattedDate and StatusLabel are display
// variants that fall back to the raw values when formatting fails.
type BillRow struct {
	ID            string
	Type          string
	Name          string
	Date          string
	FormattedDate string
	Amount        float64
	StatusLabel   string
	FileURL       string
	FileName      string
	Commentary    string
}

var statusLabels = map[string]string{
	StatusPending:  "Pending",
	StatusAccepted: "Accepted",
	StatusRefused:  "Refused",
}

// FormatDate renders an ISO yyyy-mm-dd date as a short display label,
// e.g. "2023-06-15" becomes "15 Jun. 23".
func FormatDate(raw string) (string, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", err
	}
	return t.Format("2 Jan. 06"), nil
}

// Listing fetches and orders the bills table and tracks the
// loading/loaded/errored view state. A fresh Listing is in the loading
// state until the first Fetch settles.
type Listing struct {
	gateway Gateway
	logger  *slog.Logger

	mu    sync.Mutex
	state ListingState
	rows  []BillRow
	err   error
}

func NewListing(gateway Gateway, logger *slog.Logger) *Listing {
	return &Listing{
		gateway: gateway,
		logger:  logger,
		state:   StateLoading,
	}
}

// Fetch loads the bills and transitions to loaded with the rows ordered
// newest first, or to errored keeping the failure for display. There is
// no automatic retry; re-navigating to the view calls Fetch again.
func (l *Listing) Fetch(ctx context.Context) error {
	l.mu.Lock()
	l.state = StateLoading
	l.err = nil
	l.mu.Unlock()

	fetched, err := l.gateway.List(ctx)
	if err != nil {
		l.logger.Error("listing bills failed", "error", err)
		l.mu.Lock()
		l.state = StateErrored
		l.err = err
		l.rows = nil
		l.mu.Unlock()
		return err
	}

	rows := make([]BillRow, 0, len(fetched))
	for _, b := range fetched {
		rows = append(rows, l.toRow(b))
	}

	// anti-chronological; raw ISO dates sort lexicographically
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})

	l.mu.Lock()
	l.state = StateLoaded
	l.rows = rows
	l.mu.Unlock()
	return nil
}

// toRow formats a bill for display. A record whose date or status cannot
// be interpreted keeps its raw values rather than being dropped.
func (l *Listing) toRow(b Bill) BillRow {
	row := BillRow{
		ID:            b.ID,
		Type:          b.Type,
		Name:          b.Name,
		Date:          b.Date,
		FormattedDate: b.Date,
		Amount:        b.Amount,
		StatusLabel:   b.Status,
		FileURL:       b.FileURL,
		FileName:      b.FileName,
		Commentary:    b.Commentary,
	}

	if formatted, err := FormatDate(b.Date); err != nil {
		l.logger.Warn("unparseable bill date, rendering raw", "bill_id", b.ID, "date", b.Date)
	} else {
		row.FormattedDate = formatted
	}

	if label, ok := statusLabels[b.Status]; ok {
		row.StatusLabel = label
	}

	return row
}

// State returns the current view state.
func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Rows returns the rendered rows of the last successful fetch.
func (l *Listing) Rows() []BillRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([]BillRow, len(l.rows))
	copy(rows, l.rows)
	return rows
}

// Err returns the failure shown to the user when the listing is errored.
func (l *Listing) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
