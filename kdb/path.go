package kdb

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DataDirEnv overrides the directory holding the default database.
const DataDirEnv = "KDETECT_DATA_DIR"

const defaultFileName = "detector_database.pb"

// DefaultDatabasePath is $KDETECT_DATA_DIR/detector_database.pb or, when
// unset, the file of the same name in the TQEC directory of the per-user data
// directory (xdg.DataHome).
func DefaultDatabasePath() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return filepath.Join(dir, defaultFileName), nil
	}
	return filepath.Join(xdg.DataHome, "TQEC", defaultFileName), nil
}
