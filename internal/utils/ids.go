package utils

import (
	"crypto/rand"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ulidRegex = regexp.MustCompile(`(?i)^[0-9A-HJKMNP-TV-Z]{26}$`)

	// ErrInvalidID is returned when a path or payload identifier is not a ULID.
	ErrInvalidID = errors.New("invalid id")

	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID generates a new ULID string. IDs generated within the same process are
// strictly increasing, so ordering by id follows creation order.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsID reports whether value is a well-formed ULID (case-insensitive).
func IsID(value string) bool {
	return ulidRegex.MatchString(strings.TrimSpace(value))
}

// NormalizeID validates value and returns it in canonical upper case.
func NormalizeID(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !IsID(value) {
		return "", ErrInvalidID
	}
	return strings.ToUpper(value), nil
}
