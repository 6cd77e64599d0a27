package response

import (
	"time"

	"store-rating/internal/data/entity"
)

type RatingResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitRatingResponse reports whether the submission created a new rating
// and the store average after it.
type SubmitRatingResponse struct {
	Rating    RatingResponse `json:"rating"`
	Created   bool           `json:"created"`
	AvgRating float64        `json:"avg_rating"`
}

// RaterResponse is one user who rated a store, with the rating they gave.
type RaterResponse struct {
	StoreID   string         `json:"store_id"`
	User      entity.Profile `json:"user"`
	Value     int            `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func RatingToResponse(rating *entity.Rating) RatingResponse {
	return RatingResponse{
		ID:        rating.ID.String(),
		StoreID:   rating.StoreID.String(),
		UserID:    rating.UserID.String(),
		Value:     rating.Value,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func RatingsToResponse(ratings []*entity.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, RatingToResponse(r))
	}
	return out
}
