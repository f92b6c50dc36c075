package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/billserver"
)

// BillRepository implements the billserver.Repository interface using GORM
type BillRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) billserver.Repository {
	return &BillRepository{db: db}
}

// Create saves a new bill record to the database
func (r *BillRepository) Create(record *billserver.BillRecord) error {
	return r.db.Create(record).Error
}

// GetByID retrieves a bill record by its ID
func (r *BillRepository) GetByID(id string) (*billserver.BillRecord, error) {
	var record billserver.BillRecord
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrBillNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListByEmail retrieves the bill records owned by an identity. Ordering
// for display happens client-side over the raw date string.
func (r *BillRepository) ListByEmail(email string) ([]*billserver.BillRecord, error) {
	var records []*billserver.BillRecord
	err := r.db.Where("email = ?", email).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// Update updates an existing bill record
func (r *BillRepository) Update(record *billserver.BillRecord) error {
	record.UpdatedAt = time.Now()
	return r.db.Save(record).Error
}
