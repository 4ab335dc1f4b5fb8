package sanitizer

import "testing"

func TestNonNegative(t *testing.T) {
	tests := []struct {
		input int64
		want  int64
	}{
		{input: -300, want: 0},
		{input: 0, want: 0},
		{input: 1700, want: 1700},
	}
	for _, tt := range tests {
		if got := NonNegative(tt.input); got != tt.want {
			t.Errorf("NonNegative(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestClampRating(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{input: -1, want: MinRating},
		{input: 4.6, want: 4.6},
		{input: 9, want: MaxRating},
	}
	for _, tt := range tests {
		if got := ClampRating(tt.input); got != tt.want {
			t.Errorf("ClampRating(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
