package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned when a string is not a MAJOR.MINOR.PATCH semantic version.
var ErrInvalidVersion = errors.New("invalid semantic version")

// Ordering is the result of comparing two versions.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// Parse parses a strict semantic version. A single leading "v" is accepted.
func Parse(raw string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, raw, err)
	}
	return v, nil
}

// Valid reports whether raw parses as a semantic version.
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// Compare orders a and b by semantic version precedence. Build metadata is ignored.
func Compare(a, b string) (Ordering, error) {
	va, err := Parse(a)
	if err != nil {
		return Equal, err
	}
	vb, err := Parse(b)
	if err != nil {
		return Equal, err
	}
	return Ordering(va.Compare(vb)), nil
}

// SelectLatest returns the greatest version in versions, or "" and false when
// none of them parse. When two versions have equal precedence but differ as
// strings, the one that appears first wins. Unparseable entries are skipped.
func SelectLatest(versions []string) (string, bool) {
	var (
		latest    string
		latestVer *semver.Version
	)
	for _, raw := range versions {
		v, err := Parse(raw)
		if err != nil {
			continue
		}
		if latestVer == nil || v.GreaterThan(latestVer) {
			latest, latestVer = raw, v
		}
	}
	return latest, latestVer != nil
}
