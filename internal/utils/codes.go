package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingCode returns a human-readable unique booking code,
// e.g. BK-20250601-7F3A2C.
func NewBookingCode(now time.Time) string {
	frag := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), frag)
}

// NewRefundID returns a stable refund identifier, e.g. RF-8d41c2ab.
func NewRefundID() string {
	return "RF-" + uuid.NewString()[:8]
}

// NewVerificationCode returns a 6-digit numeric one-time code.
func NewVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// fall back to a uuid-derived digit string; still unpredictable enough
		return uuid.NewString()[:6]
	}
	return fmt.Sprintf("%06d", n.Int64())
}
