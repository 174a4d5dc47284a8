package adyen

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Record types of the payments accounting report that we act on.
const (
	RecordSentForSettle = "SentForSettle"
	RecordSettled       = "Settled"
	RecordSettledBulk   = "SettledBulk"
)

// AccountingLine is one relevant row of a payments accounting report.
type AccountingLine struct {
	Line          int
	RecordType    string
	PSPReference  string
	BookingDate   time.Time
	PaymentMethod string
	MainAmount    decimal.Decimal
}

// IsSettlement reports whether the row settles a payment.
func (l AccountingLine) IsSettlement() bool {
	return l.RecordType == RecordSettled || l.RecordType == RecordSettledBulk
}

// ParsePaymentsAccounting returns the SentForSettle, Settled and SettledBulk rows
// of a payments accounting report, in file order. All other record types are skipped.
func ParsePaymentsAccounting(contents string) ([]AccountingLine, error) {
	d, err := newDictReader(contents)
	if err != nil {
		return nil, err
	}
	if err := d.requireColumns("Record Type", "Psp Reference", "Booking Date"); err != nil {
		return nil, err
	}

	var lines []AccountingLine
	for {
		row, lineNo, err := d.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read payments accounting report: %w", err)
		}

		rt := row["Record Type"]
		if rt != RecordSentForSettle && rt != RecordSettled && rt != RecordSettledBulk {
			continue
		}

		bookDate, err := parseBookingDate(row["Booking Date"])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		l := AccountingLine{
			Line:          lineNo,
			RecordType:    rt,
			PSPReference:  row["Psp Reference"],
			BookingDate:   bookDate,
			PaymentMethod: row["Payment Method"],
		}
		if l.IsSettlement() {
			if l.MainAmount, err = parseAmount(row["Main Amount"]); err != nil {
				return nil, fmt.Errorf("line %d: invalid main amount %q: %w", lineNo, row["Main Amount"], err)
			}
		}
		lines = append(lines, l)
	}
	return lines, nil
}
