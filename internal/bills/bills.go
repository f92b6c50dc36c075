package bills

import (
	"context"
	"io"
)

// Status values assigned by the back office. The workflow only ever sets
// pending on a fresh submission and treats the field as display-only.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// Bill is one expense-reimbursement record with its receipt attachment.
// The remote service owns these records; the workflow holds a transient
// copy for rendering and editing, discarded when the view changes.
type Bill struct {
	ID         string  `json:"id,omitempty"`
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	VAT        float64 `json:"vat"`
	Pct        float64 `json:"pct"`
	Commentary string  `json:"commentary,omitempty"`
	FileURL    string  `json:"fileUrl,omitempty"`
	FileName   string  `json:"fileName,omitempty"`
	Status     string  `json:"status,omitempty"`
}

// ReceiptPayload is the upload request: the receipt content plus the
// owner identity copied from the session.
type ReceiptPayload struct {
	FileName string
	Content  io.Reader
	Email    string
}

// ReceiptUpload is what the remote service returns once it has stored a
// receipt: the file location and the key of the draft bill record.
type ReceiptUpload struct {
	FileURL  string `json:"fileUrl"`
	Key      string `json:"key"`
	FileName string `json:"fileName"`
}

// Gateway is the remote persistence boundary for bills. Implementations
// must not retain the payload content reader past the call.
type Gateway interface {
	List(ctx context.Context) ([]Bill, error)
	Create(ctx context.Context, payload ReceiptPayload) (ReceiptUpload, error)
	Update(ctx context.Context, bill Bill) (Bill, error)
}

// Route names a view the workflow can navigate to.
type Route string

const (
	RouteBills   Route = "Bills"
	RouteNewBill Route = "NewBill"
)

// NavigateFunc swaps the rendered view. The workflow calls it, the
// surrounding application implements it.
type NavigateFunc func(route Route)
