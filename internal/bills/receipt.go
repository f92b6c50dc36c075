package bills

import (
	"path/filepath"
	"strings"
)

// receipts must be images the back office can preview inline
var supportedReceiptExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// SupportedReceipt reports whether the file name carries an accepted
// receipt extension (jpg, jpeg or png, case-insensitive). A name with no
// extension is rejected.
func SupportedReceipt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := supportedReceiptExtensions[ext]
	return ok
}
