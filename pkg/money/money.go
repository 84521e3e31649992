// Package money renders integer rupiah amounts the way the storefront displays them.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol precedes every formatted amount, separated by a non-breaking space.
const Symbol = "Rp\u00a0"

var locale = language.Indonesian

// Format renders amount as an IDR string with Indonesian digit grouping and no
// fraction digits, e.g. 1500000 becomes "Rp 1.500.000".
func Format(amount int64) string {
	p := message.NewPrinter(locale)
	if amount < 0 {
		return "-" + Symbol + p.Sprintf("%d", uint64(-amount))
	}
	return Symbol + p.Sprintf("%d", amount)
}
