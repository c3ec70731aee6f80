package menu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/logger"
)

const (
	menuCacheKey = "menu:available"
	menuCacheTTL = 5 * time.Minute
)

// ItemRepository defines the data access interface for menu items
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID uuid.UUID) (*Item, error)
	List(ctx context.Context, category *Category, includeUnavailable bool) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, itemID uuid.UUID) error
}

// Service implements menu business logic with a Redis read-through cache on
// the public menu. cache may be nil; every read then goes to the database.
type Service struct {
	repo  ItemRepository
	cache redis.Cmdable
}

// NewService creates a new menu service
func NewService(repo ItemRepository, cache redis.Cmdable) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetMenu returns the public menu. The uncategorized, available-only listing
// is served from cache when possible; category filters go to the database.
func (s *Service) GetMenu(ctx context.Context, category *Category) ([]*Item, error) {
	if category != nil && !category.Valid() {
		return nil, common.NewBadRequestError("unknown menu category", nil)
	}

	if category == nil {
		if items, ok := s.cachedMenu(ctx); ok {
			return items, nil
		}
	}

	items, err := s.repo.List(ctx, category, false)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load menu", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load menu")
	}

	if category == nil {
		s.storeMenu(ctx, items)
	}

	return items, nil
}

// GetFullMenu returns every item including unavailable ones, for staff
func (s *Service) GetFullMenu(ctx context.Context) ([]*Item, error) {
	items, err := s.repo.List(ctx, nil, true)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load menu", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load menu")
	}
	return items, nil
}

// GetItem returns a single menu item
func (s *Service) GetItem(ctx context.Context, itemID uuid.UUID) (*Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.NewNotFoundError("menu item not found", err)
	}
	return item, nil
}

// CreateItem adds a dish to the menu. New dishes start available.
func (s *Service) CreateItem(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	if !req.Category.Valid() {
		return nil, common.NewBadRequestError("unknown menu category", nil)
	}

	now := time.Now().UTC()
	item := &Item{
		ID:            uuid.New(),
		Name:          req.Name,
		NameZh:        req.NameZh,
		Description:   req.Description,
		DescriptionZh: req.DescriptionZh,
		Price:         req.Price,
		Category:      req.Category,
		ImageURL:      req.ImageURL,
		IsAvailable:   true,
		SpicyLevel:    req.SpicyLevel,
		IsVegetarian:  req.IsVegetarian,
		IsGlutenFree:  req.IsGlutenFree,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		logger.WithContext(ctx).Error("Failed to create menu item", zap.Error(err))
		return nil, common.NewInternalServerError("failed to create menu item")
	}

	s.invalidate(ctx)
	return item, nil
}

// UpdateItem applies the non-nil fields of req to an existing item
func (s *Service) UpdateItem(ctx context.Context, itemID uuid.UUID, req *UpdateItemRequest) (*Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, common.NewNotFoundError("menu item not found", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.NameZh != nil {
		item.NameZh = *req.NameZh
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.DescriptionZh != nil {
		item.DescriptionZh = *req.DescriptionZh
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, common.NewBadRequestError("price must be positive", nil)
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, common.NewBadRequestError("unknown menu category", nil)
		}
		item.Category = *req.Category
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.SpicyLevel != nil {
		if *req.SpicyLevel < 0 || *req.SpicyLevel > 5 {
			return nil, common.NewBadRequestError("spicy level must be between 0 and 5", nil)
		}
		item.SpicyLevel = *req.SpicyLevel
	}
	if req.IsVegetarian != nil {
		item.IsVegetarian = *req.IsVegetarian
	}
	if req.IsGlutenFree != nil {
		item.IsGlutenFree = *req.IsGlutenFree
	}

	if err := s.repo.Update(ctx, item); err != nil {
		logger.WithContext(ctx).Error("Failed to update menu item", zap.Error(err))
		return nil, common.NewInternalServerError("failed to update menu item")
	}

	item.UpdatedAt = time.Now().UTC()
	s.invalidate(ctx)
	return item, nil
}

// DeleteItem removes a dish from the menu
func (s *Service) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return common.NewNotFoundError("menu item not found", err)
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		logger.WithContext(ctx).Error("Failed to delete menu item", zap.Error(err))
		return common.NewInternalServerError("failed to delete menu item")
	}

	s.invalidate(ctx)
	return nil
}

// cachedMenu reads the public menu from cache. Any cache error is treated
// as a miss.
func (s *Service) cachedMenu(ctx context.Context) ([]*Item, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, menuCacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx).Warn("Menu cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var items []*Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.WithContext(ctx).Warn("Dropping corrupt menu cache entry", zap.Error(err))
		return nil, false
	}
	return items, true
}

func (s *Service) storeMenu(ctx context.Context, items []*Item) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, menuCacheKey, raw, menuCacheTTL).Err(); err != nil {
		logger.WithContext(ctx).Warn("Menu cache write failed", zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, menuCacheKey).Err(); err != nil {
		logger.WithContext(ctx).Warn("Menu cache invalidation failed", zap.Error(err))
	}
}
