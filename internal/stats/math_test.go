package stats

import (
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected *float64
	}{
		{"Empty", []float64{}, nil},
		{"Nil", nil, nil},
		{"SingleItem", []float64{5.5}, f64(5.5)},
		{"OddCount", []float64{2, 4, 6}, f64(4)},
		{"EvenCount", []float64{2, 4}, f64(3)},
		{"Unsorted", []float64{10.5, 2.5, 8.5, 4.5, 6.5}, f64(6.5)},
		{"Negative", []float64{-3, 1}, f64(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.values)
			switch {
			case tt.expected == nil && got != nil:
				t.Errorf("Median() = %v, want nil", *got)
			case tt.expected != nil && (got == nil || *got != *tt.expected):
				t.Errorf("Median() = %v, want %v", got, *tt.expected)
			}
		})
	}
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("input reordered: %v", in)
	}
}

func TestStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := Mean(values)
	if mean != 5 {
		t.Fatalf("Mean() = %v, want 5", mean)
	}
	if got := StdDev(values, mean); math.Abs(got-2) > 1e-9 {
		t.Errorf("StdDev() = %v, want 2", got)
	}
	if got := StdDev(nil, 0); got != 0 {
		t.Errorf("StdDev(nil) = %v, want 0", got)
	}
}

func TestPercentAndRatio(t *testing.T) {
	if got := Percent(1, 4); got != 25 {
		t.Errorf("Percent(1,4) = %v", got)
	}
	if got := Percent(3, 0); got != 0 {
		t.Errorf("Percent(3,0) = %v", got)
	}
	if got := Ratio(1, 2); got != 0.5 {
		t.Errorf("Ratio(1,2) = %v", got)
	}
	if got := Clamp(120, 0, 100); got != 100 {
		t.Errorf("Clamp(120) = %v", got)
	}
}

func f64(v float64) *float64 { return &v }
