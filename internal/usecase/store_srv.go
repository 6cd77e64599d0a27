package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"
	"store-rating/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StoreService interface {
	AddStore(ctx context.Context, p entity.Principal, req *request.CreateStoreRequest) (*response.StoreResponse, error)
	DeleteStore(ctx context.Context, p entity.Principal, storeID string) error

	// ListStores annotates each store with the caller's own rating.
	ListStores(ctx context.Context, p entity.Principal, req *request.ListStoresRequest) (*response.PaginatedResponse[response.StoreResponse], error)
	GetStoreByID(ctx context.Context, p entity.Principal, storeID string) (*response.StoreResponse, error)
	GetStoresByOwner(ctx context.Context, p entity.Principal, ownerID string) ([]response.StoreResponse, error)
}

type storeService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewStoreService(repo *repository.Repository, log *zap.Logger) StoreService {
	return &storeService{
		repo: repo,
		log:  log.With(zap.String("service", "store")),
	}
}

func (s *storeService) AddStore(ctx context.Context, p entity.Principal, req *request.CreateStoreRequest) (*response.StoreResponse, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}

	// 1. Validate
	if err := validate(req); err != nil {
		s.log.Warn("Add store validation failed", zap.Error(err))
		return nil, err
	}

	// 2. The owner must be an existing store owner
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, newValidationError("owner_id", "Must be a valid UUID")
	}

	owner, err := s.repo.User.FindByID(ctx, ownerID)
	if err != nil {
		s.log.Error("Failed to find store owner", zap.Error(err), zap.String("owner_id", req.OwnerID))
		return nil, fmt.Errorf("find owner: %w", err)
	}
	if owner == nil || owner.Role != entity.RoleStoreOwner {
		return nil, newValidationError("owner_id", "Owner must be an existing store owner")
	}

	// 3. Create with no ratings yet
	now := time.Now()
	store := &entity.Store{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Address:   req.Address,
		OwnerID:   ownerID,
		AvgRating: 0,
	}

	if err := s.repo.Store.Create(ctx, store); err != nil {
		s.log.Error("Failed to create store", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.log.Info("Store added",
		zap.String("store_id", store.ID.String()),
		zap.String("owner_id", req.OwnerID),
		zap.String("by", p.UserID.String()))

	resp := response.StoreToResponse(store)
	return &resp, nil
}

func (s *storeService) DeleteStore(ctx context.Context, p entity.Principal, storeID string) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}

	id, err := parseID("store", storeID)
	if err != nil {
		return err
	}

	var removed int64
	err = s.repo.Atomic(ctx, func(tx *repository.Repository) error {
		store, err := tx.Store.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock store: %w", err)
		}
		if store == nil {
			return &NotFoundError{Entity: "store", ID: storeID}
		}

		removed, err = tx.Rating.DeleteByStore(ctx, id)
		if err != nil {
			return err
		}

		if err := tx.Store.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Entity: "store", ID: storeID}
			}
			return err
		}
		return nil
	})
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			s.log.Error("Failed to delete store", zap.Error(err), zap.String("store_id", storeID))
		}
		return err
	}

	s.log.Info("Store deleted",
		zap.String("store_id", storeID),
		zap.Int64("ratings_removed", removed),
		zap.String("by", p.UserID.String()))
	return nil
}

func (s *storeService) ListStores(ctx context.Context, p entity.Principal, req *request.ListStoresRequest) (*response.PaginatedResponse[response.StoreResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := entity.StoreFilter{
		Name:    req.Name,
		Address: req.Address,
		Sort:    req.Sort,
		Desc:    req.Order == "desc",
	}

	stores, err := s.repo.Store.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list stores", zap.Error(err))
		return nil, fmt.Errorf("list stores: %w", err)
	}

	total, err := s.repo.Store.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count stores", zap.Error(err))
		return nil, fmt.Errorf("count stores: %w", err)
	}

	// Attach the caller's own ratings
	mine, err := s.repo.Rating.FindByUserID(ctx, p.UserID)
	if err != nil {
		s.log.Error("Failed to get caller ratings", zap.Error(err))
		return nil, fmt.Errorf("get caller ratings: %w", err)
	}
	byStore := make(map[uuid.UUID]*entity.Rating, len(mine))
	for _, r := range mine {
		byStore[r.StoreID] = r
	}

	data := response.StoresToResponse(stores)
	for i, store := range stores {
		if r, ok := byStore[store.ID]; ok {
			rr := response.RatingToResponse(r)
			data[i].MyRating = &rr
		}
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *storeService) GetStoreByID(ctx context.Context, p entity.Principal, storeID string) (*response.StoreResponse, error) {
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

	resp := response.StoreToResponse(store)
	return &resp, nil
}

func (s *storeService) GetStoresByOwner(ctx context.Context, p entity.Principal, ownerID string) ([]response.StoreResponse, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		if !p.IsAdmin() {
			return nil, ErrForbidden
		}
		return []response.StoreResponse{}, nil
	}

	if !p.IsAdmin() && id != p.UserID {
		return nil, ErrForbidden
	}

	stores, err := s.repo.Store.FindByOwner(ctx, id)
	if err != nil {
		s.log.Error("Failed to get owner stores", zap.Error(err), zap.String("owner_id", ownerID))
		return nil, fmt.Errorf("get owner stores: %w", err)
	}

	return response.StoresToResponse(stores), nil
}
