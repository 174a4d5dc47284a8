package adyen

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Settlement detail row types.
const (
	TypeSettled           = "Settled"
	TypeSettledBulk       = "SettledBulk"
	TypeMerchantPayout    = "MerchantPayout"
	TypeDepositCorrection = "DepositCorrection"
	TypeBalanceTransfer   = "Balancetransfer"
	// TypeBalanceTransferOut is the outgoing leg of a balance transfer. It is
	// kept apart so the two legs are not netted against each other.
	TypeBalanceTransferOut = "Balancetransfer2"
	TypeReserveAdjustment  = "ReserveAdjustment"
	TypeInvoiceDeduction   = "InvoiceDeduction"
	TypeRefunded           = "Refunded"
	TypeRefundedBulk       = "RefundedBulk"
)

// TypeTotal is the accumulated net amount (credit - debit) for one row type.
type TypeTotal struct {
	Type   string
	Amount decimal.Decimal
}

// SettlementSummary holds the per type totals of a settlement detail batch report.
type SettlementSummary struct {
	Totals map[string]decimal.Decimal
}

// ParseSettlementDetail accumulates the net amount of every row, grouped by type.
func ParseSettlementDetail(contents string) (*SettlementSummary, error) {
	d, err := newDictReader(contents)
	if err != nil {
		return nil, err
	}
	if err := d.requireColumns("Type", "Net Credit (NC)", "Net Debit (NC)"); err != nil {
		return nil, err
	}

	s := &SettlementSummary{Totals: make(map[string]decimal.Decimal)}
	for {
		row, lineNo, err := d.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read settlement detail report: %w", err)
		}

		credit, err := parseAmount(row["Net Credit (NC)"])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid net credit: %w", lineNo, err)
		}
		debit, err := parseAmount(row["Net Debit (NC)"])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid net debit: %w", lineNo, err)
		}

		t := row["Type"]
		if t == TypeBalanceTransfer && debit.IsPositive() {
			t = TypeBalanceTransferOut
		}
		s.Totals[t] = s.Totals[t].Add(credit.Sub(debit))
	}
	return s, nil
}

// Sorted returns the totals with settlement types first and the rest alphabetically.
func (s *SettlementSummary) Sorted() []TypeTotal {
	out := make([]TypeTotal, 0, len(s.Totals))
	for t, a := range s.Totals {
		out = append(out, TypeTotal{Type: t, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool {
		return sortKey(out[i].Type) < sortKey(out[j].Type)
	})
	return out
}

func sortKey(t string) string {
	if t == TypeSettled || t == TypeSettledBulk {
		return "\x00" + t
	}
	return t
}

// Text renders the summary one type per line.
func (s *SettlementSummary) Text() string {
	lines := make([]string, 0, len(s.Totals))
	for _, tt := range s.Sorted() {
		lines = append(lines, fmt.Sprintf("%-20s: %s", tt.Type, tt.Amount.StringFixed(2)))
	}
	return strings.Join(lines, "\n")
}
