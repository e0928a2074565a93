package inventory

import "github.com/shopspring/decimal"

// AddInput describes a new inventory record. An empty ID is generated.
type AddInput struct {
	ID       string
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// UpdateInput carries the fields to change; nil fields keep their value.
type UpdateInput struct {
	Name     *string
	Quantity *int
	Price    *decimal.Decimal
}

func (u UpdateInput) empty() bool {
	return u.Name == nil && u.Quantity == nil && u.Price == nil
}
