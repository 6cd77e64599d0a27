// Package memory holds map-backed repositories used by the memory storage
// driver and by service tests.
package memory

import (
	"context"
	"sync"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"

	"github.com/google/uuid"
)

// DB is the shared state of the memory repositories. Operations outside a
// transaction hold mu for their duration; a transaction holds it until it
// finishes, so transactions are serialized.
type DB struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*entity.User
	stores  map[uuid.UUID]*entity.Store
	ratings map[uuid.UUID]*entity.Rating
}

func NewDB() *DB {
	return &DB{
		users:   make(map[uuid.UUID]*entity.User),
		stores:  make(map[uuid.UUID]*entity.Store),
		ratings: make(map[uuid.UUID]*entity.Rating),
	}
}

// NewRepository returns repositories over db. Atomic restores the
// pre-transaction state when fn fails or panics.
func NewRepository(db *DB, session repository.SessionRepository) *repository.Repository {
	runTx := func(ctx context.Context, fn func(tx *repository.Repository) error) (err error) {
		db.mu.Lock()
		defer db.mu.Unlock()

		snap := db.snapshot()
		defer func() {
			if p := recover(); p != nil {
				db.restore(snap)
				panic(p)
			}
			if err != nil {
				db.restore(snap)
			}
		}()

		return fn(repository.Compose(
			&userRepository{db: db, tx: true},
			&storeRepository{db: db, tx: true},
			&ratingRepository{db: db, tx: true},
			session,
			nil,
		))
	}

	return repository.Compose(
		&userRepository{db: db},
		&storeRepository{db: db},
		&ratingRepository{db: db},
		session,
		runTx,
	)
}

// lock acquires the DB unless the caller already runs inside a transaction.
func (db *DB) lock(tx bool) func() {
	if tx {
		return func() {}
	}
	db.mu.Lock()
	return db.mu.Unlock
}

type snapshot struct {
	users   map[uuid.UUID]*entity.User
	stores  map[uuid.UUID]*entity.Store
	ratings map[uuid.UUID]*entity.Rating
}

func (db *DB) snapshot() snapshot {
	return snapshot{
		users:   cloneMap(db.users),
		stores:  cloneMap(db.stores),
		ratings: cloneMap(db.ratings),
	}
}

func (db *DB) restore(s snapshot) {
	db.users = s.users
	db.stores = s.stores
	db.ratings = s.ratings
}

// cloneMap copies the map and the values it points to.
func cloneMap[T any](m map[uuid.UUID]*T) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// page applies limit and offset to an already ordered slice.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
