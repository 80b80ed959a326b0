// Package format derives the display strings for transaction lists.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mymoneyhq/moneyctl/internal/model"
)

// TimestampLabel combines a transaction's effective date with the raw
// zero-padded HH:MM:SS clock of its server-side update time, plus a marker:
// hours 12 and above get "pm", below 12 "am". The hour itself is never
// converted, so midnight renders as "00 ... am" and 17:00 as "17 ... pm";
// the web client has always shown the clock that way and lists would change
// appearance if we fixed it here.
func TimestampLabel(date model.Date, updatedAt time.Time) string {
	hour := updatedAt.Hour()
	meridiem := "am"
	if hour >= 12 {
		meridiem = "pm"
	}
	return fmt.Sprintf("%s at %02d:%02d:%02d %s",
		date, hour, updatedAt.Minute(), updatedAt.Second(), meridiem)
}

// Amount renders the integer part of an amount with comma thousands
// separators, e.g. 1234567 -> "1,234,567". The fraction is truncated, not
// rounded. Any sign glyph (+ for income, - for expense) is the caller's
// concern.
func Amount(amount float64) string {
	s := strconv.FormatFloat(math.Trunc(amount), 'f', 0, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// SignedAmount prefixes Amount with the glyph for the transaction type.
func SignedAmount(amount float64, typ model.TransactionType) string {
	if typ == model.TypeIncome {
		return "+" + Amount(amount)
	}
	return "-" + Amount(amount)
}
