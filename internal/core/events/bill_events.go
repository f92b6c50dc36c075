package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBillUploadFailed = "bill.upload_failed"
	EventBillSubmitFailed = "bill.submit_failed"
)

// NewBillUploadFailed reports a receipt upload the gateway rejected or
// never acknowledged.
func NewBillUploadFailed(fileName string, cause error) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventBillUploadFailed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"file_name": fileName,
			"error":     cause.Error(),
		},
	}
}

// NewBillSubmitFailed reports a form submission the gateway failed to
// persist. The user has already navigated on; only operators see this.
func NewBillSubmitFailed(billID string, cause error) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventBillSubmitFailed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"bill_id": billID,
			"error":   cause.Error(),
		},
	}
}
