package util

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// UserColor derives a stable avatar color from a user identifier. The same
// identifier always yields the same color on every client.
func UserColor(identifier string) string {
	sum := md5.Sum([]byte(identifier))
	return "#" + hex.EncodeToString(sum[:])[:6]
}

// FormatHours renders a fractional hour count in a human readable form,
// e.g. 2.5 -> "2h 30min". Zero and open entries render as "0min".
func FormatHours(hours float64) string {
	if hours <= 0 {
		return "0min"
	}

	whole := int(hours)
	minutes := int((hours - float64(whole)) * 60)

	switch {
	case whole == 0:
		return fmt.Sprintf("%dmin", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", whole)
	default:
		return fmt.Sprintf("%dh %dmin", whole, minutes)
	}
}
