package ledger

import "testing"

func TestQuarterMonths(t *testing.T) {
	cases := []struct {
		quarter    int
		start, end int
	}{
		{1, 1, 3},
		{2, 4, 6},
		{3, 7, 9},
		{4, 10, 12},
	}
	for _, c := range cases {
		start, end := QuarterMonths(c.quarter)
		if start != c.start || end != c.end {
			t.Errorf("quarter %d: got %d-%d, want %d-%d", c.quarter, start, end, c.start, c.end)
		}
	}
}
