package version

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidVersion is returned when a version is not a semantic version.
var ErrInvalidVersion = errors.New("invalid semantic version")

// maxSemverLength bounds the input handed to the regex.
const maxSemverLength = 128

var semverRegex = regexp.MustCompile(
	`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
		`(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
		`(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

// ValidateSemver returns ErrInvalidVersion (wrapped) unless v is
// MAJOR.MINOR.PATCH with optional pre-release and build metadata.
func ValidateSemver(v string) error {
	if len(v) > maxSemverLength {
		return fmt.Errorf("%w: exceeds maximum length of %d", ErrInvalidVersion, maxSemverLength)
	}
	if !semverRegex.MatchString(v) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return nil
}
