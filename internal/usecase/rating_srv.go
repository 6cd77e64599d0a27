package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"
	"store-rating/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingService interface {
	// AddRating creates the caller's rating of a store, or overwrites it
	// when one exists.
	AddRating(ctx context.Context, p entity.Principal, req *request.SubmitRatingRequest) (*response.SubmitRatingResponse, error)
	UpdateRating(ctx context.Context, p entity.Principal, ratingID string, req *request.UpdateRatingRequest) (*response.SubmitRatingResponse, error)

	// Queries return nil or an empty slice on a miss.
	GetUserRating(ctx context.Context, p entity.Principal, storeID string) (*response.RatingResponse, error)
	GetStoreRatings(ctx context.Context, p entity.Principal, storeID string) ([]response.RatingResponse, error)
	GetUsersWhoRatedStore(ctx context.Context, p entity.Principal, storeID string) ([]response.RaterResponse, error)
}

type ratingService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewRatingService(repo *repository.Repository, log *zap.Logger) RatingService {
	return &ratingService{
		repo: repo,
		log:  log.With(zap.String("service", "rating")),
		now:  time.Now,
	}
}

// recomputeAverage stores the rounded mean of the store's current ratings.
// The caller must hold the store row lock.
func recomputeAverage(ctx context.Context, tx *repository.Repository, storeID uuid.UUID) (float64, error) {
	stats, err := tx.Rating.StatsByStore(ctx, storeID)
	if err != nil {
		return 0, err
	}

	avg := stats.Average()
	if err := tx.Store.UpdateAvgRating(ctx, storeID, avg); err != nil {
		return 0, fmt.Errorf("update average of store %s: %w", storeID, err)
	}
	return avg, nil
}

func (s *ratingService) AddRating(ctx context.Context, p entity.Principal, req *request.SubmitRatingRequest) (*response.SubmitRatingResponse, error) {
	// 1. Only regular users rate stores
	if p.Role != entity.RoleUser {
		return nil, ErrForbidden
	}

	// 2. Validate
	if err := validate(req); err != nil {
		return nil, err
	}
	storeID, err := parseID("store", req.StoreID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rating := &entity.Rating{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		StoreID:   storeID,
		UserID:    p.UserID,
		Value:     req.Value,
		UpdatedAt: now,
	}

	// 3. Upsert and recompute under the store lock
	var (
		inserted bool
		avg      float64
	)
	err = s.repo.Atomic(ctx, func(tx *repository.Repository) error {
		store, err := tx.Store.FindByIDForUpdate(ctx, storeID)
		if err != nil {
			return fmt.Errorf("lock store: %w", err)
		}
		if store == nil {
			return &NotFoundError{Entity: "store", ID: req.StoreID}
		}

		inserted, err = tx.Rating.Upsert(ctx, rating)
		if err != nil {
			return err
		}

		avg, err = recomputeAverage(ctx, tx, storeID)
		return err
	})
	if err != nil {
		return nil, s.txError("Failed to submit rating", err,
			zap.String("store_id", req.StoreID), zap.String("user_id", p.UserID.String()))
	}

	s.log.Info("Rating submitted",
		zap.String("rating_id", rating.ID.String()),
		zap.String("store_id", req.StoreID),
		zap.String("user_id", p.UserID.String()),
		zap.Int("value", req.Value),
		zap.Bool("created", inserted),
		zap.Float64("avg_rating", avg),
	)

	return &response.SubmitRatingResponse{
		Rating:    response.RatingToResponse(rating),
		Created:   inserted,
		AvgRating: avg,
	}, nil
}

func (s *ratingService) UpdateRating(ctx context.Context, p entity.Principal, ratingID string, req *request.UpdateRatingRequest) (*response.SubmitRatingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseID("rating", ratingID)
	if err != nil {
		return nil, err
	}

	var (
		rating *entity.Rating
		avg    float64
	)
	err = s.repo.Atomic(ctx, func(tx *repository.Repository) error {
		// 1. The rating must exist and belong to the caller
		rating, err = tx.Rating.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if rating == nil {
			return &NotFoundError{Entity: "rating", ID: ratingID}
		}
		if rating.UserID != p.UserID {
			return ErrForbidden
		}

		// 2. Lock the store, then write
		store, err := tx.Store.FindByIDForUpdate(ctx, rating.StoreID)
		if err != nil {
			return fmt.Errorf("lock store: %w", err)
		}
		if store == nil {
			return &NotFoundError{Entity: "store", ID: rating.StoreID.String()}
		}

		rating.Value = req.Value
		rating.UpdatedAt = s.now()
		if err := tx.Rating.Update(ctx, rating); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Entity: "rating", ID: ratingID}
			}
			return err
		}

		// 3. Recompute
		avg, err = recomputeAverage(ctx, tx, rating.StoreID)
		return err
	})
	if err != nil {
		return nil, s.txError("Failed to update rating", err, zap.String("rating_id", ratingID))
	}

	s.log.Info("Rating updated",
		zap.String("rating_id", ratingID),
		zap.Int("value", req.Value),
		zap.Float64("avg_rating", avg),
	)

	return &response.SubmitRatingResponse{
		Rating:    response.RatingToResponse(rating),
		AvgRating: avg,
	}, nil
}

// txError logs unexpected transaction failures and passes err through.
func (s *ratingService) txError(msg string, err error, fields ...zap.Field) error {
	var nf *NotFoundError
	if errors.As(err, &nf) || errors.Is(err, ErrForbidden) {
		return err
	}
	s.log.Error(msg, append(fields, zap.Error(err))...)
	return err
}

func (s *ratingService) GetUserRating(ctx context.Context, p entity.Principal, storeID string) (*response.RatingResponse, error) {
	id, err := uuid.Parse(storeID)
	if err != nil {
		return nil, nil
	}

	rating, err := s.repo.Rating.FindByStoreAndUser(ctx, id, p.UserID)
	if err != nil {
		s.log.Error("Failed to get user rating", zap.Error(err), zap.String("store_id", storeID))
		return nil, fmt.Errorf("get user rating: %w", err)
	}
	if rating == nil {
		return nil, nil
	}

	resp := response.RatingToResponse(rating)
	return &resp, nil
}

// storeForOwnerView loads the store when the caller may see its ratings:
// admins, or the store's owner.
func (s *ratingService) storeForOwnerView(ctx context.Context, p entity.Principal, storeID string) (*entity.Store, error) {
	if p.Role != entity.RoleAdmin && p.Role != entity.RoleStoreOwner {
		return nil, ErrForbidden
	}

	id, err := uuid.Parse(storeID)
	if err != nil {
		return nil, nil
	}

	store, err := s.repo.Store.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get store", zap.Error(err), zap.String("store_id", storeID))
		return nil, fmt.Errorf("get store: %w", err)
	}
	if store == nil {
		return nil, nil
	}

	if !p.IsAdmin() && store.OwnerID != p.UserID {
		return nil, ErrForbidden
	}
	return store, nil
}

func (s *ratingService) GetStoreRatings(ctx context.Context, p entity.Principal, storeID string) ([]response.RatingResponse, error) {
	store, err := s.storeForOwnerView(ctx, p, storeID)
	if err != nil || store == nil {
		return []response.RatingResponse{}, err
	}

	ratings, err := s.repo.Rating.FindByStoreID(ctx, store.ID)
	if err != nil {
		s.log.Error("Failed to get store ratings", zap.Error(err), zap.String("store_id", storeID))
		return nil, fmt.Errorf("get store ratings: %w", err)
	}

	return response.RatingsToResponse(ratings), nil
}

func (s *ratingService) GetUsersWhoRatedStore(ctx context.Context, p entity.Principal, storeID string) ([]response.RaterResponse, error) {
	store, err := s.storeForOwnerView(ctx, p, storeID)
	if err != nil || store == nil {
		return []response.RaterResponse{}, err
	}

	raters, err := ratersOf(ctx, s.repo, store.ID)
	if err != nil {
		s.log.Error("Failed to get store raters", zap.Error(err), zap.String("store_id", storeID))
		return nil, err
	}
	return raters, nil
}

// ratersOf lists each user who rated the store with the value they gave,
// most recent first.
func ratersOf(ctx context.Context, repo *repository.Repository, storeID uuid.UUID) ([]response.RaterResponse, error) {
	ratings, err := repo.Rating.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("get store ratings: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.UserID)
	}

	users, err := repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get raters: %w", err)
	}
	byID := make(map[uuid.UUID]*entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	raters := make([]response.RaterResponse, 0, len(ratings))
	for _, r := range ratings {
		u, ok := byID[r.UserID]
		if !ok {
			continue
		}
		raters = append(raters, response.RaterResponse{
			StoreID:   r.StoreID.String(),
			User:      u.Profile(),
			Value:     r.Value,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return raters, nil
}
