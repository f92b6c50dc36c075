package bills

import "log/slog"

// ModalOpener is the overlay widget used to display a receipt inline.
// Implemented outside the workflow.
type ModalOpener interface {
	OpenImage(url, alt string)
}

// Preview opens a receipt in the injected overlay. Pure UI side effect:
// no network call and no bill mutation.
type Preview struct {
	modal  ModalOpener
	logger *slog.Logger
}

func NewPreview(modal ModalOpener, logger *slog.Logger) *Preview {
	return &Preview{
		modal:  modal,
		logger: logger,
	}
}

// Open shows the receipt at fileURL. A bill without an attached receipt
// is a no-op.
func (p *Preview) Open(fileURL, fileName string) {
	if fileURL == "" {
		p.logger.Debug("no receipt attached", "file_name", fileName)
		return
	}
	p.modal.OpenImage(fileURL, fileName)
}
