package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db *DB
	tx bool
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	defer r.db.lock(r.tx)()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}

	r.db.users[user.ID] = clone(user)
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.db.lock(r.tx)()
	return clone(r.db.users[id]), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.db.lock(r.tx)()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	defer r.db.lock(r.tx)()

	var users []*entity.User
	for _, id := range ids {
		if u, ok := r.db.users[id]; ok {
			users = append(users, clone(u))
		}
	}
	return users, nil
}

func userMatches(u *entity.User, f entity.UserFilter) bool {
	return containsFold(u.Name, f.Name) &&
		containsFold(u.Email, f.Email) &&
		containsFold(u.Address, f.Address) &&
		(f.Role == "" || u.Role == f.Role)
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *userRepository) filter(f entity.UserFilter) []*entity.User {
	var users []*entity.User
	for _, u := range r.db.users {
		if userMatches(u, f) {
			users = append(users, clone(u))
		}
	}
	return users
}

func (r *userRepository) FindAll(ctx context.Context, f entity.UserFilter, limit, offset int) ([]*entity.User, error) {
	defer r.db.lock(r.tx)()

	users := r.filter(f)
	key := func(u *entity.User) string {
		switch f.Sort {
		case "email":
			return u.Email
		case "address":
			return u.Address
		case "role":
			return string(u.Role)
		}
		return u.Name
	}

	slices.SortFunc(users, func(a, b *entity.User) int {
		c := strings.Compare(key(a), key(b))
		if f.Desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		return c
	})

	return page(users, limit, offset), nil
}

func (r *userRepository) Count(ctx context.Context, f entity.UserFilter) (int64, error) {
	defer r.db.lock(r.tx)()
	return int64(len(r.filter(f))), nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	defer r.db.lock(r.tx)()

	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	return nil
}

// Delete removes the user along with their stores and every rating that
// references either, mirroring the foreign keys of the SQL schema.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.db.lock(r.tx)()

	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)

	for sid, s := range r.db.stores {
		if s.OwnerID == id {
			delete(r.db.stores, sid)
		}
	}
	for rid, rt := range r.db.ratings {
		if rt.UserID == id {
			delete(r.db.ratings, rid)
			continue
		}
		if _, ok := r.db.stores[rt.StoreID]; !ok {
			delete(r.db.ratings, rid)
		}
	}
	return nil
}
