package billserver

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/bills"
)

// BillRecord is the persisted form of a bill. The service owns these
// records; clients only ever see the JSON bill representation.
type BillRecord struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"index;not null"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Date       string    `json:"date"`
	Amount     float64   `json:"amount"`
	VAT        float64   `json:"vat" gorm:"column:vat"`
	Pct        float64   `json:"pct"`
	Commentary string    `json:"commentary"`
	FileURL    *string   `json:"file_url,omitempty" gorm:"column:file_url"`
	FileName   *string   `json:"file_name,omitempty" gorm:"column:file_name"`
	Status     string    `json:"status" gorm:"default:pending"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (BillRecord) TableName() string {
	return "bills"
}

// Repository defines the data access methods for bill records
type Repository interface {
	Create(record *BillRecord) error
	GetByID(id string) (*BillRecord, error)
	ListByEmail(email string) ([]*BillRecord, error)
	Update(record *BillRecord) error
}

// ReceiptStore persists uploaded receipt files and yields their public URL.
type ReceiptStore interface {
	Save(fileName string, data []byte) (string, error)
}

// Service handles the bill persistence logic behind the gateway contract.
type Service struct {
	repo     Repository
	receipts ReceiptStore
	logger   *slog.Logger
}

func NewService(repo Repository, receipts ReceiptStore, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		receipts: receipts,
		logger:   logger,
	}
}

// ListBills returns every bill owned by the given identity.
func (s *Service) ListBills(email string) ([]*BillRecord, error) {
	records, err := s.repo.ListByEmail(email)
	if err != nil {
		s.logger.Error("failed to list bills", "error", err, "email", email)
		return nil, err
	}
	return records, nil
}

// CreateDraft stores a receipt file and opens a draft bill record around
// it. The receipt extension is re-checked here: the client validates
// locally, but the service is the contract's last line.
func (s *Service) CreateDraft(email, fileName string, content []byte) (*BillRecord, error) {
	if !bills.SupportedReceipt(fileName) {
		s.logger.Warn("draft rejected: unsupported receipt", "file_name", fileName, "email", email)
		return nil, internal.ErrUnsupportedReceipt
	}

	fileURL, err := s.receipts.Save(fileName, content)
	if err != nil {
		s.logger.Error("failed to store receipt", "error", err, "file_name", fileName)
		return nil, internal.NewInternalError("storing receipt", err)
	}

	now := time.Now()
	record := &BillRecord{
		ID:        uuid.NewString(),
		Email:     email,
		FileURL:   &fileURL,
		FileName:  &fileName,
		Status:    bills.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create draft bill", "error", err, "email", email)
		return nil, err
	}

	s.logger.Info("draft bill created", "bill_id", record.ID, "email", email, "file_url", fileURL)
	return record, nil
}

// UpdateBill fills in or amends the record identified by id with the
// submitted form content. The receipt file fields are never taken from
// the payload: what the upload stored on draft creation is the record
// of what was actually received.
func (s *Service) UpdateBill(id string, dto UpdateBillDTO) (*BillRecord, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("bill update validation failed", "error", err, "bill_id", id)
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("bill not found for update", "error", err, "bill_id", id)
		return nil, internal.ErrBillNotFound
	}

	record.Type = dto.Type
	record.Name = dto.Name
	record.Date = dto.Date
	record.Amount = dto.Amount
	record.VAT = dto.VAT
	record.Pct = dto.Pct
	record.Commentary = dto.Commentary
	if dto.Email != "" {
		record.Email = dto.Email
	}
	if dto.Status != "" {
		record.Status = dto.Status
	}
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update bill", "error", err, "bill_id", id)
		return nil, err
	}

	s.logger.Info("bill updated", "bill_id", record.ID, "status", record.Status)
	return record, nil
}

// ToBill maps a stored record to the wire representation clients consume.
func ToBill(r *BillRecord) bills.Bill {
	b := bills.Bill{
		ID:         r.ID,
		Email:      r.Email,
		Type:       r.Type,
		Name:       r.Name,
		Date:       r.Date,
		Amount:     r.Amount,
		VAT:        r.VAT,
		Pct:        r.Pct,
		Commentary: r.Commentary,
		Status:     r.Status,
	}
	if r.FileURL != nil {
		b.FileURL = *r.FileURL
	}
	if r.FileName != nil {
		b.FileName = *r.FileName
	}
	return b
}
