package usecase

import (
	"context"
	"fmt"
	"math"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DashboardService interface {
	Admin(ctx context.Context, p entity.Principal) (*response.AdminDashboardResponse, error)
	Owner(ctx context.Context, p entity.Principal) (*response.OwnerDashboardResponse, error)
}

type dashboardService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDashboardService(repo *repository.Repository, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo: repo,
		log:  log.With(zap.String("service", "dashboard")),
	}
}

func (s *dashboardService) Admin(ctx context.Context, p entity.Principal) (*response.AdminDashboardResponse, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}

	users, err := s.repo.User.Count(ctx, entity.UserFilter{})
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	stores, err := s.repo.Store.Count(ctx, entity.StoreFilter{})
	if err != nil {
		s.log.Error("Failed to count stores", zap.Error(err))
		return nil, fmt.Errorf("count stores: %w", err)
	}

	ratings, err := s.repo.Rating.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count ratings", zap.Error(err))
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	return &response.AdminDashboardResponse{
		TotalUsers:   users,
		TotalStores:  stores,
		TotalRatings: ratings,
	}, nil
}

func (s *dashboardService) Owner(ctx context.Context, p entity.Principal) (*response.OwnerDashboardResponse, error) {
	if p.Role != entity.RoleStoreOwner {
		return nil, ErrForbidden
	}

	stores, err := s.repo.Store.FindByOwner(ctx, p.UserID)
	if err != nil {
		s.log.Error("Failed to get owner stores", zap.Error(err), zap.String("owner_id", p.UserID.String()))
		return nil, fmt.Errorf("get owner stores: %w", err)
	}

	resp := &response.OwnerDashboardResponse{
		Stores:        response.StoresToResponse(stores),
		AverageRating: meanOfAverages(stores),
		Raters:        []response.RaterResponse{},
	}

	distinct := make(map[uuid.UUID]struct{})
	for _, store := range stores {
		raters, err := ratersOf(ctx, s.repo, store.ID)
		if err != nil {
			s.log.Error("Failed to get store raters", zap.Error(err), zap.String("store_id", store.ID.String()))
			return nil, err
		}
		for _, r := range raters {
			distinct[r.User.ID] = struct{}{}
		}
		resp.Raters = append(resp.Raters, raters...)
	}
	resp.TotalRaters = len(distinct)

	return resp, nil
}

// meanOfAverages averages the stores' one-decimal averages and rounds the
// result half away from zero to one decimal. It is 0 without stores.
func meanOfAverages(stores []*entity.Store) float64 {
	n := int64(len(stores))
	if n == 0 {
		return 0
	}

	var sumTenths int64
	for _, s := range stores {
		sumTenths += int64(math.Round(s.AvgRating * 10))
	}
	return float64((2*sumTenths+n)/(2*n)) / 10
}
