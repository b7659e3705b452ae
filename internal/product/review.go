package product

import "errors"

const (
	MinRating = 1
	MaxRating = 5
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// AddReview appends r and recomputes AverageRating as the arithmetic mean of
// all ratings.
func AddReview(p *Product, r Review) error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	p.Reviews = append(p.Reviews, r)
	p.AverageRating = MeanRating(p.Reviews)
	return nil
}

// MeanRating is 0 for no reviews.
func MeanRating(rs []Review) float64 {
	if len(rs) == 0 {
		return 0
	}
	total := 0
	for _, r := range rs {
		total += r.Rating
	}
	return float64(total) / float64(len(rs))
}
