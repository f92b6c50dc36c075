package bills

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/frahmantamala/bill-tracking/internal/core/events"
	"github.com/frahmantamala/bill-tracking/internal/session"
)

// FormData carries the submit-time form fields. Numeric ranges are not
// re-validated here; the form is trusted as entered.
type FormData struct {
	Type       string
	Name       string
	Date       string
	Amount     float64
	VAT        float64
	Pct        float64
	Commentary string
}

// Submission drives one new-bill workflow: a receipt upload followed by
// the form submit. Each instance owns its upload state exclusively;
// nothing else writes fileURL, fileName or billID. Empty string means
// not-yet-set: a receipt has to succeed before any of the three holds a
// value, and fileURL/fileName are only ever set together.
type Submission struct {
	gateway  Gateway
	sessions session.Provider
	navigate NavigateFunc
	bus      *events.Bus
	logger   *slog.Logger

	mu       sync.Mutex
	fileURL  string
	fileName string
	billID   string
}

func NewSubmission(gateway Gateway, sessions session.Provider, navigate NavigateFunc, bus *events.Bus, logger *slog.Logger) *Submission {
	return &Submission{
		gateway:  gateway,
		sessions: sessions,
		navigate: navigate,
		bus:      bus,
		logger:   logger,
	}
}

// SelectFile handles a newly chosen receipt. An unsupported extension
// resets the upload state locally and never reaches the network. A
// supported one is uploaded in the background; the returned channel
// closes once the call has settled and the state reflects the outcome.
// A failed upload is reported on the diagnostic channel and leaves the
// state untouched, so the user can simply pick a file again.
func (s *Submission) SelectFile(ctx context.Context, fileName string, content io.Reader) <-chan struct{} {
	done := make(chan struct{})

	if !SupportedReceipt(fileName) {
		s.mu.Lock()
		s.fileURL = ""
		s.fileName = ""
		s.billID = ""
		s.mu.Unlock()
		s.logger.Debug("receipt rejected", "file_name", fileName)
		close(done)
		return done
	}

	user, err := s.sessions.CurrentUser()
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		close(done)
		return done
	}

	go func() {
		defer close(done)

		upload, err := s.gateway.Create(ctx, ReceiptPayload{
			FileName: fileName,
			Content:  content,
			Email:    user.Email,
		})
		if err != nil {
			s.logger.Error("receipt upload failed", "file_name", fileName, "error", err)
			s.bus.Publish(ctx, events.NewBillUploadFailed(fileName, err))
			return
		}

		s.mu.Lock()
		s.billID = upload.Key
		s.fileURL = upload.FileURL
		s.fileName = fileName
		s.mu.Unlock()

		s.logger.Info("receipt uploaded", "bill_id", upload.Key, "file_url", upload.FileURL)
	}()

	return done
}

// SubmitForm composes the bill from the form fields, the stored upload
// state and the session identity, hands it to the gateway and navigates
// to the bills view without waiting for the call to settle. Update
// failures go to the diagnostic channel only; the user is not blocked on
// a backend persistence error once the form validated locally.
//
// Submission is not hard-blocked on a missing receipt: when no upload
// ever succeeded the bill goes out with empty fileUrl/fileName and
// navigation still happens.
func (s *Submission) SubmitForm(ctx context.Context, form FormData) <-chan struct{} {
	user, err := s.sessions.CurrentUser()
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
	}

	s.mu.Lock()
	bill := Bill{
		ID:         s.billID,
		Email:      user.Email,
		Type:       form.Type,
		Name:       form.Name,
		Date:       form.Date,
		Amount:     form.Amount,
		VAT:        form.VAT,
		Pct:        form.Pct,
		Commentary: form.Commentary,
		FileURL:    s.fileURL,
		FileName:   s.fileName,
		Status:     StatusPending,
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)

		if _, err := s.gateway.Update(ctx, bill); err != nil {
			s.logger.Error("bill submit failed", "bill_id", bill.ID, "error", err)
			s.bus.Publish(ctx, events.NewBillSubmitFailed(bill.ID, err))
		}
	}()

	s.navigate(RouteBills)
	return done
}

// FileURL returns the stored receipt location, empty until an upload
// succeeded.
func (s *Submission) FileURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileURL
}

// FileName returns the accepted receipt name, empty until an upload
// succeeded.
func (s *Submission) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// BillID returns the key the remote service assigned to the draft bill,
// empty until an upload succeeded.
func (s *Submission) BillID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.billID
}
