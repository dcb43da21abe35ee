package model

import (
	"cmp"
	"math"
	"slices"
)

// SortBy returns a copy of the records, stably sorted in ascending order of the given field.
//
// The area title sorts as a string, other fields numerically. Records without a defined value
// (a NaN percent change) go last. Equal keys keep their relative order.
func SortBy(records []Record, f Field) ([]Record, error) {
	if !f.IsValid() {
		return nil, ErrUnknownField
	}

	sorted := slices.Clone(records)

	if !f.IsNumeric() {
		slices.SortStableFunc(sorted, func(a, b Record) int {
			return cmp.Compare(a.AreaTitle, b.AreaTitle)
		})

		return sorted, nil
	}

	slices.SortStableFunc(sorted, func(a, b Record) int {
		x, _ := a.Number(f)
		y, _ := b.Number(f)

		switch nx, ny := math.IsNaN(x), math.IsNaN(y); {
		case nx && ny:
			return 0
		case nx:
			return 1
		case ny:
			return -1
		}

		return cmp.Compare(x, y)
	})

	return sorted, nil
}
