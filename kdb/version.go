package kdb

import (
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
)

// CurrentVersion is bumped whenever the stored format or the meaning of
// stored detectors changes.
const CurrentVersion = "1.0.0"

// LegacyVersion is assumed for data that does not carry a version.
const LegacyVersion = "0.0.0"

var ErrUnsupportedVersion = errors.New("kdb: unsupported database version")

// checkVersion validates v and rejects data written by a newer major version.
// An empty v is LegacyVersion. A v that is not a semantic version is also
// ErrCorrupt; a newer major version is only ErrUnsupportedVersion, since the
// data may be perfectly readable by the release that wrote it.
func checkVersion(v string) (string, error) {
	if v == "" {
		return LegacyVersion, nil
	}
	sv := "v" + v
	if !semver.IsValid(sv) {
		return "", fmt.Errorf("%w: %w: %q is not a semantic version", ErrCorrupt, ErrUnsupportedVersion, v)
	}
	if semver.Compare(semver.Major(sv), semver.Major("v"+CurrentVersion)) > 0 {
		return "", fmt.Errorf("%w: %s is newer than %s", ErrUnsupportedVersion, v, CurrentVersion)
	}
	return v, nil
}
