package memory

import (
	"context"
	"slices"
	"strings"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"

	"github.com/google/uuid"
)

type ratingRepository struct {
	db *DB
	tx bool
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) (bool, error) {
	defer r.db.lock(r.tx)()

	if _, ok := r.db.stores[rating.StoreID]; !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := r.db.users[rating.UserID]; !ok {
		return false, repository.ErrNotFound
	}

	for _, existing := range r.db.ratings {
		if existing.StoreID == rating.StoreID && existing.UserID == rating.UserID {
			existing.Value = rating.Value
			existing.UpdatedAt = rating.UpdatedAt
			rating.ID = existing.ID
			rating.CreatedAt = existing.CreatedAt
			return false, nil
		}
	}

	r.db.ratings[rating.ID] = clone(rating)
	return true, nil
}

func (r *ratingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error) {
	defer r.db.lock(r.tx)()
	return clone(r.db.ratings[id]), nil
}

func (r *ratingRepository) FindByStoreAndUser(ctx context.Context, storeID, userID uuid.UUID) (*entity.Rating, error) {
	defer r.db.lock(r.tx)()

	for _, rt := range r.db.ratings {
		if rt.StoreID == storeID && rt.UserID == userID {
			return clone(rt), nil
		}
	}
	return nil, nil
}

func (r *ratingRepository) collect(match func(*entity.Rating) bool) []*entity.Rating {
	var ratings []*entity.Rating
	for _, rt := range r.db.ratings {
		if match(rt) {
			ratings = append(ratings, clone(rt))
		}
	}

	slices.SortFunc(ratings, func(a, b *entity.Rating) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return ratings
}

func (r *ratingRepository) FindByStoreID(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	defer r.db.lock(r.tx)()
	return r.collect(func(rt *entity.Rating) bool { return rt.StoreID == storeID }), nil
}

func (r *ratingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Rating, error) {
	defer r.db.lock(r.tx)()
	return r.collect(func(rt *entity.Rating) bool { return rt.UserID == userID }), nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *entity.Rating) error {
	defer r.db.lock(r.tx)()

	existing, ok := r.db.ratings[rating.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Value = rating.Value
	existing.UpdatedAt = rating.UpdatedAt
	return nil
}

func (r *ratingRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	defer r.db.lock(r.tx)()

	var storeIDs []uuid.UUID
	for id, rt := range r.db.ratings {
		if rt.UserID == userID {
			storeIDs = append(storeIDs, rt.StoreID)
			delete(r.db.ratings, id)
		}
	}
	return storeIDs, nil
}

func (r *ratingRepository) DeleteByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	defer r.db.lock(r.tx)()

	var n int64
	for id, rt := range r.db.ratings {
		if rt.StoreID == storeID {
			delete(r.db.ratings, id)
			n++
		}
	}
	return n, nil
}

func (r *ratingRepository) CountAll(ctx context.Context) (int64, error) {
	defer r.db.lock(r.tx)()
	return int64(len(r.db.ratings)), nil
}

func (r *ratingRepository) StatsByStore(ctx context.Context, storeID uuid.UUID) (entity.RatingStats, error) {
	defer r.db.lock(r.tx)()

	var stats entity.RatingStats
	for _, rt := range r.db.ratings {
		if rt.StoreID == storeID {
			stats.Sum += int64(rt.Value)
			stats.Count++
		}
	}
	return stats, nil
}
