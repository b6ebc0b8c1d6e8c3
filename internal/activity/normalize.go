package activity

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the layout of display dates (YYYY-MM-DD).
	DateLayout = "2006-01-02"

	zeroAmount       = "$0.00"
	noAmount         = "-"
	exchangeFallback = "Item exchange"
)

// Clock supplies the current time for records that carry no creation date.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Normalizer converts raw transaction records into display rows.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	clock Clock
}

// NewNormalizer creates a normalizer that dates undated records with clock.
// A nil clock means SystemClock.
func NewNormalizer(clock Clock) *Normalizer {
	if clock == nil {
		clock = SystemClock
	}
	return &Normalizer{clock: clock}
}

// Normalize flattens one raw record. It never fails: absent fields resolve
// to their fallbacks. A nil record yields an empty row dated today.
func (n *Normalizer) Normalize(raw RawTransaction) DisplayTransaction {
	if raw == nil {
		raw = &UnrecognizedRecord{}
	}
	b := raw.base()

	return DisplayTransaction{
		ID:               ParseTransactionID(b.TransactionID),
		Type:             raw.Type(),
		Item:             itemLabel(b),
		Date:             n.date(b),
		Amount:           amount(raw, b),
		Status:           b.Status,
		CounterpartyName: counterpartyName(b),
		ItemID:           itemID(b),
	}
}

// NormalizeAll flattens records in order. The result is never nil.
func (n *Normalizer) NormalizeAll(records []RawTransaction) []DisplayTransaction {
	out := make([]DisplayTransaction, 0, len(records))
	for _, r := range records {
		out = append(out, n.Normalize(r))
	}
	return out
}

// ParseTransactionID derives the numeric row id from a transaction tag such
// as "t123". One leading non-digit character is dropped and the rest must be
// a non-negative decimal integer; anything else maps to 0.
func ParseTransactionID(transactionID string) int {
	s := transactionID
	if r, size := utf8.DecodeRuneInString(s); size > 0 && !unicode.IsDigit(r) {
		s = s[size:]
	}
	if s == "" {
		return 0
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		// out of range for int
		return 0
	}
	return id
}

// FormatMoney renders v as a dollar amount with two decimal places.
// NaN and infinities have no decimal form and render as "$0.00".
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return zeroAmount
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func (n *Normalizer) date(b *RecordBase) string {
	if b.CreatedAt != "" {
		return b.CreatedAt
	}
	// calendar date in UTC, whatever zone the clock reports in
	return n.clock.Now().UTC().Format(DateLayout)
}

func itemLabel(b *RecordBase) string {
	switch {
	case b.Item != nil && b.Item.ItemName != "":
		return b.Item.ItemName
	case b.PostID != "" && b.Post != nil && b.Post.Title != "":
		return b.Post.Title
	case b.ActivityID != "" && b.Activity != nil && b.Activity.Title != "":
		return b.Activity.Title
	}
	return ""
}

func amount(raw RawTransaction, b *RecordBase) string {
	switch r := raw.(type) {
	case *SaleRecord:
		if b.Item != nil && b.Item.Price != nil {
			return FormatMoney(*b.Item.Price)
		}
		return zeroAmount
	case *FundraiserRecord:
		if b.Activity != nil && b.Activity.AmountRaised != nil {
			return FormatMoney(*b.Activity.AmountRaised)
		}
		return zeroAmount
	case *ExchangeRecord:
		if r != nil && r.ExchangedItem != nil && r.ExchangedItem.ItemName != "" {
			return r.ExchangedItem.ItemName
		}
		return exchangeFallback
	case *DonationRecord:
		return noAmount
	}
	// unrecognized kinds carry no amount
	return noAmount
}

func counterpartyName(b *RecordBase) string {
	switch {
	case b.RepresentativeID != "" && b.Representative != nil && b.Representative.Name != "":
		return b.Representative.Name
	case b.User != nil && b.User.Name != "":
		return b.User.Name
	case b.Item != nil && b.Item.Owner != nil && b.Item.Owner.Name != "":
		return b.Item.Owner.Name
	}
	return ""
}

func itemID(b *RecordBase) string {
	switch {
	case b.ItemID != "":
		return b.ItemID
	case b.PostID != "":
		return b.PostID
	case b.ActivityID != "":
		return b.ActivityID
	case b.Item != nil && b.Item.ItemID != "":
		return b.Item.ItemID
	}
	return ""
}

// NormalizeLoose decodes an already-unmarshalled JSON value and normalizes
// the resulting records. A value that is not a list normalizes to an empty
// slice. Issues describe fields that were ignored for having the wrong type.
func (n *Normalizer) NormalizeLoose(v interface{}) ([]DisplayTransaction, []FieldIssue) {
	records, issues := DecodeRecords(v)
	return n.NormalizeAll(records), issues
}

// NormalizeJSON is NormalizeLoose over a raw JSON payload. The only error is
// ErrInvalidJSON for malformed input.
func (n *Normalizer) NormalizeJSON(data []byte) ([]DisplayTransaction, []FieldIssue, error) {
	records, issues, err := DecodeJSON(data)
	if err != nil {
		return nil, nil, fmt.Errorf("NormalizeJSON: %w", err)
	}
	return n.NormalizeAll(records), issues, nil
}
