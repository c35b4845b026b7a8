package valuation

// CompareNullable orders two optional values with nil always sorting last,
// regardless of direction. It returns a negative number when a sorts first.
func CompareNullable(a, b *float64, descending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	x, y := *a, *b
	if descending {
		x, y = y, x
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
