// Package atomicfile replaces files without ever exposing a partially written
// one to readers.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/renameio/v2/maybe"
	"go.uber.org/multierr"
)

// WriteFile replaces path with data through renameio: a temporary file in
// the same directory is written, fsynced and renamed over path, then the
// directory is fsynced. Missing parent directories are created. On Windows
// renameio falls back to a plain, non-atomic write.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := maybe.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	// The rename is only durable once the directory entry is flushed.
	if runtime.GOOS == "windows" || runtime.GOOS == "zos" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open directory for fsync: %w", err)
	}
	return multierr.Append(d.Sync(), d.Close())
}

// Quarantine moves path aside to a sibling name that is not in use yet and
// returns the new name.
func Quarantine(path string, suffix string) (string, error) {
	target := path + "." + suffix
	for i := 1; ; i++ {
		_, err := os.Stat(target)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("quarantine %s: %w", path, err)
		}
		target = fmt.Sprintf("%s.%s.%d", path, suffix, i)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", path, err)
	}
	return target, nil
}
