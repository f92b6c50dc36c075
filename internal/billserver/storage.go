package billserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalReceiptStore keeps receipt files on the local filesystem and
// serves them under a public URL prefix.
type LocalReceiptStore struct {
	dir     string
	baseURL string
}

func NewLocalReceiptStore(dir, baseURL string) (*LocalReceiptStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating receipts directory: %w", err)
	}

	return &LocalReceiptStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the receipt under a unique name so two uploads of the same
// file never collide, and returns its public URL.
func (s *LocalReceiptStore) Save(fileName string, data []byte) (string, error) {
	stored := uuid.NewString() + "_" + filepath.Base(fileName)
	path := filepath.Join(s.dir, stored)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing receipt file: %w", err)
	}

	return s.baseURL + "/" + stored, nil
}
