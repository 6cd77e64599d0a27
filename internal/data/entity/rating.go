package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

type Rating struct {
	BaseSimple
	StoreID   uuid.UUID `db:"store_id"`
	UserID    uuid.UUID `db:"user_id"`
	Value     int       `db:"value"` // 1-5
	UpdatedAt time.Time `db:"updated_at"`
}

// RatingStats is the sum and count of the ratings of one store.
type RatingStats struct {
	Sum   int64
	Count int64
}

// Average returns the mean rating rounded half away from zero to one
// decimal, or 0 when there are no ratings. Integer arithmetic keeps
// values like 4.45 from drifting under float rounding.
func (s RatingStats) Average() float64 {
	if s.Count <= 0 {
		return 0
	}
	tenths := (20*s.Sum + s.Count) / (2 * s.Count)
	return float64(tenths) / 10
}

