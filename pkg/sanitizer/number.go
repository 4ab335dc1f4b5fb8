package sanitizer

const (
	MinRating = 0.0

	MaxRating = 5.0
)

// NonNegative clamps a currency amount at zero.
func NonNegative(amount int64) int64 {
	if amount < 0 {
		return 0
	}
	return amount
}

func ClampRating(rating float64) float64 {
	if rating < MinRating {
		return MinRating
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}
