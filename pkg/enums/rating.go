package enums

import "fmt"

// Rating is the 1..5 star score attached to a product review.
type Rating int

const (
	RatingOne   Rating = 1
	RatingTwo   Rating = 2
	RatingThree Rating = 3
	RatingFour  Rating = 4
	RatingFive  Rating = 5
)

// IsValid reports whether the value falls in the accepted range.
func (r Rating) IsValid() bool {
	return r >= RatingOne && r <= RatingFive
}

// ParseRating converts raw input into a Rating.
func ParseRating(value int) (Rating, error) {
	r := Rating(value)
	if !r.IsValid() {
		return 0, fmt.Errorf("invalid rating %d", value)
	}
	return r, nil
}
