package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"

	"github.com/google/uuid"
)

type storeRepository struct {
	db *DB
	tx bool
}

func (r *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	defer r.db.lock(r.tx)()

	if _, ok := r.db.users[store.OwnerID]; !ok {
		return repository.ErrNotFound
	}
	r.db.stores[store.ID] = clone(store)
	return nil
}

func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	defer r.db.lock(r.tx)()
	return clone(r.db.stores[id]), nil
}

// FindByIDForUpdate needs no row lock: transactions already hold the DB.
func (r *storeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	return r.FindByID(ctx, id)
}

func (r *storeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Store, error) {
	owner := ownerID
	return r.FindAll(ctx, entity.StoreFilter{OwnerID: &owner}, -1, 0)
}

// LockByOwnerOrRater only collects ids: transactions already hold the DB.
func (r *storeRepository) LockByOwnerOrRater(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	defer r.db.lock(r.tx)()

	var ids []uuid.UUID
	for id, s := range r.db.stores {
		if s.OwnerID == userID {
			ids = append(ids, id)
		}
	}
	for _, rt := range r.db.ratings {
		if rt.UserID == userID {
			if _, ok := r.db.stores[rt.StoreID]; ok {
				ids = append(ids, rt.StoreID)
			}
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return slices.Compact(ids), nil
}

func storeMatches(s *entity.Store, f entity.StoreFilter) bool {
	return containsFold(s.Name, f.Name) &&
		containsFold(s.Address, f.Address) &&
		(f.OwnerID == nil || s.OwnerID == *f.OwnerID)
}

func (r *storeRepository) filter(f entity.StoreFilter) []*entity.Store {
	var stores []*entity.Store
	for _, s := range r.db.stores {
		if storeMatches(s, f) {
			stores = append(stores, clone(s))
		}
	}
	return stores
}

func (r *storeRepository) FindAll(ctx context.Context, f entity.StoreFilter, limit, offset int) ([]*entity.Store, error) {
	defer r.db.lock(r.tx)()

	stores := r.filter(f)
	slices.SortFunc(stores, func(a, b *entity.Store) int {
		var c int
		switch f.Sort {
		case "address":
			c = strings.Compare(a.Address, b.Address)
		case "avg_rating":
			c = cmp.Compare(a.AvgRating, b.AvgRating)
		default:
			c = strings.Compare(a.Name, b.Name)
		}
		if f.Desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		return c
	})

	return page(stores, limit, offset), nil
}

func (r *storeRepository) Count(ctx context.Context, f entity.StoreFilter) (int64, error) {
	defer r.db.lock(r.tx)()
	return int64(len(r.filter(f))), nil
}

func (r *storeRepository) UpdateAvgRating(ctx context.Context, id uuid.UUID, avgRating float64) error {
	defer r.db.lock(r.tx)()

	s, ok := r.db.stores[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.AvgRating = avgRating
	s.UpdatedAt = time.Now()
	return nil
}

func (r *storeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.db.lock(r.tx)()

	if _, ok := r.db.stores[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.stores, id)

	for rid, rt := range r.db.ratings {
		if rt.StoreID == id {
			delete(r.db.ratings, rid)
		}
	}
	return nil
}
