package repository

import (
	"context"
	"errors"
	"strings"

	"store-rating/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by writes that target a missing row.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicateEmail is returned when a user email is already taken.
	ErrDuplicateEmail = errors.New("repository: email already exists")
)

// TxFunc runs fn against repositories bound to a single transaction.
type TxFunc func(ctx context.Context, fn func(tx *Repository) error) error

type Repository struct {
	User    UserRepository
	Store   StoreRepository
	Rating  RatingRepository
	Session SessionRepository

	runTx TxFunc
}

// Compose assembles a Repository from its parts. A nil runTx makes Atomic
// run fn directly against r.
func Compose(user UserRepository, store StoreRepository, rating RatingRepository, session SessionRepository, runTx TxFunc) *Repository {
	return &Repository{
		User:    user,
		Store:   store,
		Rating:  rating,
		Session: session,
		runTx:   runTx,
	}
}

// NewRepository builds the postgres-backed repositories. Sessions live in a
// separate store chosen by configuration.
func NewRepository(db database.PgxIface, session SessionRepository, log *zap.Logger) *Repository {
	runTx := func(ctx context.Context, fn func(tx *Repository) error) error {
		return database.RunInTx(ctx, db, log, func(q database.Querier) error {
			return fn(Compose(
				NewUserRepository(q, log),
				NewStoreRepository(q, log),
				NewRatingRepository(q, log),
				session,
				nil,
			))
		})
	}

	return Compose(
		NewUserRepository(db, log),
		NewStoreRepository(db, log),
		NewRatingRepository(db, log),
		session,
		runTx,
	)
}

// Atomic runs fn in a transaction. Inside fn, tx must be used instead of r.
func (r *Repository) Atomic(ctx context.Context, fn func(tx *Repository) error) error {
	if r.runTx == nil {
		return fn(r)
	}
	return r.runTx(ctx, fn)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// likePattern escapes LIKE wildcards and wraps s for a substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func orderDirection(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

// limitArg maps a negative limit to NULL, which LIMIT treats as no limit.
func limitArg(limit int) any {
	if limit < 0 {
		return nil
	}
	return limit
}
