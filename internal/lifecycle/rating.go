package lifecycle

import "github.com/shopspring/decimal"

const (
	MinRating = 1
	MaxRating = 5
)

// ValidateRating rejects ratings outside 1..5
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return Validation("rating must be between %d and %d, got %d", MinRating, MaxRating, rating)
	}
	return nil
}

// AggregateRatings computes the mean rating rounded to 2 decimal places and
// the review count. The full set is recomputed on every save.
func AggregateRatings(ratings []int) (decimal.Decimal, int) {
	if len(ratings) == 0 {
		return decimal.Zero, 0
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	mean := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(int64(len(ratings))), 2)
	return mean, len(ratings)
}
