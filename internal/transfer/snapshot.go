package transfer

import (
	"fmt"
	"os"
	"path/filepath"

	"finanze/internal/core"
)

// WriteSnapshot exports the full transaction set to a CSV file,
// replacing any previous snapshot. The file is written to a temp file
// in the same directory and renamed into place, so readers never see a
// half-written snapshot.
func WriteSnapshot(path string, txs []core.Transaction, categories []core.Category) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Export(tmp, txs, categories); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
