package repository

import (
	"context"
	"fmt"
	"strings"

	"store-rating/internal/data/entity"
	"store-rating/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	// FindByIDForUpdate also locks the row until the surrounding
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Store, error)
	// LockByOwnerOrRater locks every store the user owns or has rated, in
	// ascending id order, and returns their ids in that order.
	LockByOwnerOrRater(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// FindAll returns all matching rows when limit is negative.
	FindAll(ctx context.Context, filter entity.StoreFilter, limit, offset int) ([]*entity.Store, error)
	Count(ctx context.Context, filter entity.StoreFilter) (int64, error)
	UpdateAvgRating(ctx context.Context, id uuid.UUID, avgRating float64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const storeColumns = `id, name, email, address, owner_id, avg_rating::float8, created_at, updated_at`

var storeSortColumns = map[string]string{
	"name":       "name",
	"address":    "address",
	"avg_rating": "avg_rating",
}

type storeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStoreRepository(db database.Querier, log *zap.Logger) StoreRepository {
	return &storeRepository{
		db:  db,
		log: log.With(zap.String("repository", "store")),
	}
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var store entity.Store
	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Email,
		&store.Address,
		&store.OwnerID,
		&store.AvgRating,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	query := `
		INSERT INTO stores (id, name, email, address, owner_id, avg_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		store.ID,
		store.Name,
		store.Email,
		store.Address,
		store.OwnerID,
		store.AvgRating,
		store.CreatedAt,
		store.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create store",
			zap.Error(err),
			zap.String("name", store.Name),
			zap.String("owner_id", store.OwnerID.String()),
		)
		return fmt.Errorf("create store %s: %w", store.Name, err)
	}

	return nil
}

func (r *storeRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Store, error) {
	store, err := scanStore(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find store by ID",
			zap.Error(err),
			zap.String("store_id", id.String()),
		)
		return nil, fmt.Errorf("find store by ID %s: %w", id.String(), err)
	}
	return store, nil
}

func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
}

func (r *storeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1 FOR UPDATE`, id)
}

func (r *storeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE owner_id = $1 ORDER BY name ASC, id ASC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to find stores by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find stores by owner %s: %w", ownerID.String(), err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *storeRepository) LockByOwnerOrRater(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM stores
		WHERE owner_id = $1 OR id IN (SELECT store_id FROM ratings WHERE user_id = $1)
		ORDER BY id
		FOR UPDATE`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to lock user stores",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("lock stores of user %s: %w", userID.String(), err)
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan locked store: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked stores: %w", err)
	}

	return ids, nil
}

func storeWhere(filter entity.StoreFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Name != "" {
		add("name ILIKE $%d", likePattern(filter.Name))
	}
	if filter.Address != "" {
		add("address ILIKE $%d", likePattern(filter.Address))
	}
	if filter.OwnerID != nil {
		add("owner_id = $%d", *filter.OwnerID)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *storeRepository) FindAll(ctx context.Context, filter entity.StoreFilter, limit, offset int) ([]*entity.Store, error) {
	where, args := storeWhere(filter)

	sortColumn, ok := storeSortColumns[filter.Sort]
	if !ok {
		sortColumn = "name"
	}

	args = append(args, limitArg(limit), offset)
	query := fmt.Sprintf(`SELECT %s FROM stores%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		storeColumns, where, sortColumn, orderDirection(filter.Desc), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find stores",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find stores limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *storeRepository) collect(rows pgx.Rows) ([]*entity.Store, error) {
	var stores []*entity.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			r.log.Error("Failed to scan store row", zap.Error(err))
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store rows: %w", err)
	}

	return stores, nil
}

func (r *storeRepository) Count(ctx context.Context, filter entity.StoreFilter) (int64, error) {
	where, args := storeWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stores`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count stores", zap.Error(err))
		return 0, fmt.Errorf("count stores: %w", err)
	}

	return count, nil
}

func (r *storeRepository) UpdateAvgRating(ctx context.Context, id uuid.UUID, avgRating float64) error {
	query := `UPDATE stores SET avg_rating = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, avgRating)
	if err != nil {
		r.log.Error("Failed to update store rating",
			zap.Error(err),
			zap.String("store_id", id.String()),
		)
		return fmt.Errorf("update rating of store %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *storeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete store",
			zap.Error(err),
			zap.String("store_id", id.String()),
		)
		return fmt.Errorf("delete store %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("Store deleted", zap.String("store_id", id.String()))
	return nil
}
