package response

import (
	"time"

	"store-rating/internal/data/entity"
)

type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   string    `json:"owner_id"`
	AvgRating float64   `json:"avg_rating"`
	CreatedAt time.Time `json:"created_at"`

	// MyRating is the caller's own rating, set on listings only.
	MyRating *RatingResponse `json:"my_rating,omitempty"`
}

func StoreToResponse(store *entity.Store) StoreResponse {
	return StoreResponse{
		ID:        store.ID.String(),
		Name:      store.Name,
		Email:     store.Email,
		Address:   store.Address,
		OwnerID:   store.OwnerID.String(),
		AvgRating: store.AvgRating,
		CreatedAt: store.CreatedAt,
	}
}

func StoresToResponse(stores []*entity.Store) []StoreResponse {
	out := make([]StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, StoreToResponse(s))
	}
	return out
}
