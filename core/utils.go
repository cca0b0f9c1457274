package core

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// date layouts
const (
	DateLayout        = "2006-01-02"          // due, collection, paid & creation dates
	DisplayDateLayout = "02 Jan 2006"         // enrollment & link creation dates
	TimestampLayout   = "2006-01-02 03:04 PM" // activity timestamps
)

var NowFunc = time.Now // mockable

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// GenerateID returns "<prefix>_" followed by n random lowercase alphanumeric characters (n <= 32).
func GenerateID(prefix string, n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(raw) {
		n = len(raw)
	}
	return prefix + "_" + raw[:n]
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Round2 rounds f to 2 decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Rate returns part/whole as a percentage, 0 when whole is 0.
func Rate(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// ParseDate parses a DateLayout string in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
