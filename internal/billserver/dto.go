package billserver

import (
	"github.com/go-playground/validator/v10"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/bills"
)

var validate = validator.New()

// UpdateBillDTO is the request payload for filling in a bill record.
// The JSON field names are the gateway's wire contract.
type UpdateBillDTO struct {
	Email      string  `json:"email" validate:"omitempty,email"`
	Type       string  `json:"type" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	VAT        float64 `json:"vat"`
	Pct        float64 `json:"pct"`
	Commentary string  `json:"commentary"`
	// fileUrl/fileName arrive because clients send the whole bill, but
	// the stored upload values always win; see Service.UpdateBill.
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending accepted refused"`
}

// Validate validates the UpdateBillDTO
func (dto UpdateBillDTO) Validate() error {
	if err := validate.Struct(dto); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ListBillsResponse wraps the bills visible to the caller.
type ListBillsResponse struct {
	Bills []bills.Bill `json:"bills"`
}
