package repository

import (
	"context"
	"fmt"

	"store-rating/internal/data/entity"
	"store-rating/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RatingRepository interface {
	// Upsert inserts the rating or, when (store, user) is already rated,
	// overwrites its value and timestamp. rating.ID and rating.CreatedAt
	// are set to the stored row's values.
	Upsert(ctx context.Context, rating *entity.Rating) (inserted bool, err error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error)
	FindByStoreAndUser(ctx context.Context, storeID, userID uuid.UUID) (*entity.Rating, error)
	FindByStoreID(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Rating, error)
	Update(ctx context.Context, rating *entity.Rating) error
	// DeleteByUser removes every rating authored by userID and returns the
	// IDs of the stores they belonged to.
	DeleteByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	DeleteByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	CountAll(ctx context.Context) (int64, error)

	// Business queries
	StatsByStore(ctx context.Context, storeID uuid.UUID) (entity.RatingStats, error)
}

const ratingColumns = `id, store_id, user_id, value, created_at, updated_at`

type ratingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRatingRepository(db database.Querier, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

func scanRating(row pgx.Row) (*entity.Rating, error) {
	var rating entity.Rating
	err := row.Scan(
		&rating.ID,
		&rating.StoreID,
		&rating.UserID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) (bool, error) {
	query := `
		INSERT INTO ratings (` + ratingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (store_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		rating.ID,
		rating.StoreID,
		rating.UserID,
		rating.Value,
		rating.CreatedAt,
		rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt, &inserted)
	if err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.String("store_id", rating.StoreID.String()),
			zap.String("user_id", rating.UserID.String()),
		)
		return false, fmt.Errorf("upsert rating for store %s by user %s: %w",
			rating.StoreID.String(), rating.UserID.String(), err)
	}

	return inserted, nil
}

func (r *ratingRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Rating, error) {
	rating, err := scanRating(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating", zap.Error(err))
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return rating, nil
}

func (r *ratingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error) {
	return r.findOne(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id)
}

func (r *ratingRepository) FindByStoreAndUser(ctx context.Context, storeID, userID uuid.UUID) (*entity.Rating, error) {
	return r.findOne(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE store_id = $1 AND user_id = $2`,
		storeID, userID)
}

func (r *ratingRepository) findMany(ctx context.Context, query string, arg uuid.UUID) ([]*entity.Rating, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		r.log.Error("Failed to query ratings", zap.Error(err), zap.String("id", arg.String()))
		return nil, fmt.Errorf("query ratings for %s: %w", arg.String(), err)
	}
	defer rows.Close()

	var ratings []*entity.Rating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}

func (r *ratingRepository) FindByStoreID(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	return r.findMany(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE store_id = $1 ORDER BY updated_at DESC, id ASC`,
		storeID)
}

func (r *ratingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Rating, error) {
	return r.findMany(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = $1 ORDER BY updated_at DESC, id ASC`,
		userID)
}

func (r *ratingRepository) Update(ctx context.Context, rating *entity.Rating) error {
	query := `UPDATE ratings SET value = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, rating.ID, rating.Value, rating.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update rating",
			zap.Error(err),
			zap.String("rating_id", rating.ID.String()),
		)
		return fmt.Errorf("update rating %s: %w", rating.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *ratingRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `DELETE FROM ratings WHERE user_id = $1 RETURNING store_id`, userID)
	if err != nil {
		r.log.Error("Failed to delete ratings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("delete ratings of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var storeIDs []uuid.UUID
	for rows.Next() {
		var storeID uuid.UUID
		if err := rows.Scan(&storeID); err != nil {
			return nil, fmt.Errorf("scan deleted rating store: %w", err)
		}
		storeIDs = append(storeIDs, storeID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted ratings: %w", err)
	}

	return storeIDs, nil
}

func (r *ratingRepository) DeleteByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM ratings WHERE store_id = $1`, storeID)
	if err != nil {
		r.log.Error("Failed to delete ratings by store",
			zap.Error(err),
			zap.String("store_id", storeID.String()),
		)
		return 0, fmt.Errorf("delete ratings of store %s: %w", storeID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *ratingRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&count); err != nil {
		r.log.Error("Failed to count ratings", zap.Error(err))
		return 0, fmt.Errorf("count ratings: %w", err)
	}

	return count, nil
}

func (r *ratingRepository) StatsByStore(ctx context.Context, storeID uuid.UUID) (entity.RatingStats, error) {
	query := `SELECT COALESCE(SUM(value), 0)::int8, COUNT(*)::int8 FROM ratings WHERE store_id = $1`

	var stats entity.RatingStats
	if err := r.db.QueryRow(ctx, query, storeID).Scan(&stats.Sum, &stats.Count); err != nil {
		r.log.Error("Failed to get store rating stats",
			zap.Error(err),
			zap.String("store_id", storeID.String()),
		)
		return entity.RatingStats{}, fmt.Errorf("get rating stats for store %s: %w", storeID.String(), err)
	}

	return stats, nil
}
