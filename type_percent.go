package watchbook

import "fmt"

// Percent is a percentage change, e.g. 12.35 for +12.35%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString renders the percentage with an explicit sign for positive
// values, the display policy for change columns.
func (p Percent) SignedString() string {
	return fmt.Sprintf("%+.2f%%", float64(p))
}

// Abs returns the magnitude of the change, used to sort report rows.
func (p Percent) Abs() Percent {
	if p < 0 {
		return -p
	}
	return p
}
