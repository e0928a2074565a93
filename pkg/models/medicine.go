package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the restock policy applied to every medicine.
const DefaultLowStockThreshold = 10

// Medicine is a single inventory record.
type Medicine struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsLowStock reports whether quantity has dropped below the threshold.
func (m Medicine) IsLowStock() bool {
	return m.Quantity < m.LowStockThreshold
}

// StockValue is quantity multiplied by the unit price.
func (m Medicine) StockValue() decimal.Decimal {
	return m.Price.Mul(decimal.NewFromInt(int64(m.Quantity)))
}

// Medicines is the inventory collection keyed by medicine id.
type Medicines map[string]Medicine

// Clone returns an independent copy of the collection.
func (m Medicines) Clone() Medicines {
	out := make(Medicines, len(m))
	for id, med := range m {
		out[id] = med
	}
	return out
}

// Sorted returns the records ordered by name, then id.
func (m Medicines) Sorted() []Medicine {
	out := make([]Medicine, 0, len(m))
	for _, med := range m {
		out = append(out, med)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindByName does a case-insensitive lookup on the trimmed name.
func (m Medicines) FindByName(name string) (Medicine, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, med := range m {
		if strings.ToLower(strings.TrimSpace(med.Name)) == needle {
			return med, true
		}
	}
	return Medicine{}, false
}

// TotalValue sums the stock value of every record.
func (m Medicines) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, med := range m {
		total = total.Add(med.StockValue())
	}
	return total
}
