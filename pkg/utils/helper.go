package utils

import (
	"encoding/base32"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseNonNegativeInt is ParseInt for counters where zero is meaningful.
func ParseNonNegativeInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 0 {
		return defaultValue
	}

	return result
}

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateReservationCode creates a human readable code, e.g. RSV-7KQ2M9XAHD.
// Format: PREFIX-<10 base32 chars from a random uuid>
func GenerateReservationCode(prefix string) string {
	id := uuid.New()
	random := codeEncoding.EncodeToString(id[:6])
	if prefix == "" {
		return random
	}
	return fmt.Sprintf("%s-%s", strings.ToUpper(prefix), random)
}
