// internal/adapters/out/firestore/money_fs.go
package firestore

import "github.com/shopspring/decimal"

// Monetary amounts are stored as decimal strings. Firestore has no decimal
// type and float64 would drift; strings round-trip exactly.

func decToStr(d decimal.Decimal) string {
	return d.String()
}

// strToDec tolerates legacy/blank fields by treating them as zero.
func strToDec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
