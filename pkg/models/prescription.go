package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptPrefix starts every prescription receipt number.
const ReceiptPrefix = "LNM-"

// LineItem snapshots the medicine name and price at dispensing time so the
// history stays accurate after later inventory edits or deletions.
type LineItem struct {
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// Total is quantity multiplied by the captured unit price.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Prescription is immutable once appended to a patient's history.
type Prescription struct {
	ID          string     `json:"id"`
	ReceiptNo   string     `json:"receipt_no"`
	DispensedAt time.Time  `json:"dispensed_at"`
	Items       []LineItem `json:"items"`
}

// Total sums every line item.
func (p Prescription) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Units sums the dispensed quantity across line items.
func (p Prescription) Units() int {
	units := 0
	for _, item := range p.Items {
		units += item.Quantity
	}
	return units
}

func (p Prescription) Clone() Prescription {
	out := p
	out.Items = append([]LineItem(nil), p.Items...)
	return out
}

// ReceiptNumber formats the receipt identifier for a dispensing time.
func ReceiptNumber(at time.Time) string {
	return ReceiptPrefix + at.Format("20060102150405")
}
