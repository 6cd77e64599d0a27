package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"
	"store-rating/internal/dto/response"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	AddUser(ctx context.Context, p entity.Principal, req *request.CreateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, p entity.Principal, userID string) error
	ListUsers(ctx context.Context, p entity.Principal, req *request.ListUsersRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetUser(ctx context.Context, p entity.Principal, userID string) (*response.UserDetailResponse, error)
}

type userService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewUserService(repo *repository.Repository, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "user")),
	}
}

func (s *userService) AddUser(ctx context.Context, p entity.Principal, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := validate(req); err != nil {
		s.log.Warn("Add user validation failed", zap.Error(err))
		return nil, err
	}

	user, err := createUser(ctx, s.repo, s.config.App.BcryptCost, time.Now(), userFields{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
		Role:     entity.UserRole(req.Role),
	})
	if err != nil {
		if !errors.Is(err, ErrEmailInUse) {
			s.log.Error("Failed to add user", zap.Error(err), zap.String("email", req.Email))
		}
		return nil, err
	}

	s.log.Info("User added",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("by", p.UserID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// DeleteUser removes the user and their ratings, and for a store owner
// their stores with all of those stores' ratings. Averages of the other
// stores the user had rated are recomputed in the same transaction.
func (s *userService) DeleteUser(ctx context.Context, p entity.Principal, userID string) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}

	id, err := parseID("user", userID)
	if err != nil {
		return err
	}
	if id == p.UserID {
		return newValidationError("id", "You cannot delete your own account")
	}

	var removedStores int
	err = s.repo.Atomic(ctx, func(tx *repository.Repository) error {
		// 1. Load the user
		user, err := tx.User.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return &NotFoundError{Entity: "user", ID: userID}
		}

		// 2. Lock every store this delete touches before changing any row,
		// in the same store-first order rating writes use
		locked, err := tx.Store.LockByOwnerOrRater(ctx, id)
		if err != nil {
			return err
		}

		// 3. Remove the user's own stores with their ratings
		owned := make(map[uuid.UUID]bool)
		if user.Role == entity.RoleStoreOwner {
			stores, err := tx.Store.FindByOwner(ctx, id)
			if err != nil {
				return fmt.Errorf("find owned stores: %w", err)
			}
			for _, store := range stores {
				if _, err := tx.Rating.DeleteByStore(ctx, store.ID); err != nil {
					return err
				}
				if err := tx.Store.Delete(ctx, store.ID); err != nil {
					return fmt.Errorf("delete store %s: %w", store.ID, err)
				}
				owned[store.ID] = true
			}
			removedStores = len(stores)
		}

		// 4. Remove the ratings the user gave
		rated, err := tx.Rating.DeleteByUser(ctx, id)
		if err != nil {
			return err
		}

		// 5. Remove the user
		if err := tx.User.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		// 6. Recompute the surviving stores that lost a rating. A store rated
		// after step 2 was not locked yet and is locked here.
		lockedSet := make(map[uuid.UUID]bool, len(locked))
		for _, storeID := range locked {
			lockedSet[storeID] = true
		}
		slices.SortFunc(rated, func(a, b uuid.UUID) int {
			return slices.Compare(a[:], b[:])
		})
		for _, storeID := range slices.Compact(rated) {
			if owned[storeID] {
				continue
			}
			if !lockedSet[storeID] {
				store, err := tx.Store.FindByIDForUpdate(ctx, storeID)
				if err != nil {
					return fmt.Errorf("lock store: %w", err)
				}
				if store == nil {
					continue
				}
			}
			if _, err := recomputeAverage(ctx, tx, storeID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			s.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID))
		}
		return err
	}

	// Sessions live outside the transaction; the user is gone either way
	if err := s.repo.Session.RevokeAllUserSessions(ctx, id); err != nil {
		s.log.Error("Failed to revoke sessions of deleted user",
			zap.Error(err), zap.String("user_id", userID))
	}

	s.log.Info("User deleted",
		zap.String("user_id", userID),
		zap.Int("stores_removed", removedStores),
		zap.String("by", p.UserID.String()))
	return nil
}

func (s *userService) ListUsers(ctx context.Context, p entity.Principal, req *request.ListUsersRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	filter := entity.UserFilter{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Role:    entity.UserRole(req.Role),
		Sort:    req.Sort,
		Desc:    req.Order == "desc",
	}

	users, err := s.repo.User.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.repo.User.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, response.UserToResponse(u))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *userService) GetUser(ctx context.Context, p entity.Principal, userID string) (*response.UserDetailResponse, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}

	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{Entity: "user", ID: userID}
	}

	resp := &response.UserDetailResponse{UserResponse: response.UserToResponse(user)}

	if user.Role == entity.RoleStoreOwner {
		stores, err := s.repo.Store.FindByOwner(ctx, id)
		if err != nil {
			s.log.Error("Failed to get owner stores", zap.Error(err), zap.String("user_id", userID))
			return nil, fmt.Errorf("get owner stores: %w", err)
		}
		avg := meanOfAverages(stores)
		resp.StoreRating = &avg
	}

	return resp, nil
}
