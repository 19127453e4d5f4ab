// internal/domain/order/number.go
package order

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NumberPrefix prefixes every human-readable order number.
const NumberPrefix = "ORD"

// NewNumber generates an order number: "ORD" + yyyyMMddHHmmss + "-" + 4 hex
// chars. The second-granularity timestamp keeps it human-legible; the random
// suffix plus a create-only write (retry on conflict) makes it unique under
// concurrent creation in the same second.
func NewNumber(now time.Time) string {
	var b [2]byte
	// rand.Read on the crypto source never fails in practice; a zero suffix
	// still round-trips through the conflict retry.
	_, _ = rand.Read(b[:])
	return NumberPrefix + now.UTC().Format("20060102150405") + "-" + hex.EncodeToString(b[:])
}
