package prescriptions

import (
	"math"

	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
)

// Line requests a quantity of one medicine.
type Line struct {
	MedicineID string
	Quantity   int
}

// mergeLines sums quantities of repeated medicine ids, keeping the order in
// which each id first appeared. Quantities must already be positive.
func mergeLines(lines []Line) ([]Line, error) {
	index := make(map[string]int, len(lines))
	merged := make([]Line, 0, len(lines))
	for _, line := range lines {
		if pos, ok := index[line.MedicineID]; ok {
			if merged[pos].Quantity > math.MaxInt-line.Quantity {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity for medicine "+line.MedicineID+" is too large").
					WithDetails(map[string]any{"medicine_id": line.MedicineID})
			}
			merged[pos].Quantity += line.Quantity
			continue
		}
		index[line.MedicineID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}
