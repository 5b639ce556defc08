package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"food-ordering/internal/domain"
)

type MenuService struct {
	dishes     DishRepository
	cache      MenuCache
	popularity PopularityStore
	now        func() time.Time
}

// NewMenuService accepts nil cache and popularity stores; the menu is then
// always read from the repository and nothing is reported as popular.
func NewMenuService(dishes DishRepository, cache MenuCache, popularity PopularityStore) *MenuService {
	return &MenuService{
		dishes:     dishes,
		cache:      cache,
		popularity: popularity,
		now:        time.Now,
	}
}

// Menu lists every dish by name with its order count.
func (s *MenuService) Menu(ctx context.Context) ([]domain.Dish, error) {
	if s.cache != nil {
		dishes, ok, err := s.cache.GetMenu(ctx)
		if err != nil {
			log.Printf("[menu] cache read failed: %v", err)
		} else if ok {
			return dishes, nil
		}
	}

	dishes, err := s.dishes.ListDishes(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, dishes); err != nil {
			log.Printf("[menu] cache write failed: %v", err)
		}
	}
	return dishes, nil
}

// PopularToday returns the most ordered dishes of the current day. Dishes
// that no longer exist are left out.
func (s *MenuService) PopularToday(ctx context.Context, limit int) ([]domain.PopularDish, error) {
	if s.popularity == nil || limit <= 0 {
		return []domain.PopularDish{}, nil
	}

	top, err := s.popularity.TopPopular(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("read popularity: %w", err)
	}
	if len(top) == 0 {
		return top, nil
	}

	menu, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(menu))
	for _, dish := range menu {
		names[dish.ID] = dish.Name
	}

	popular := make([]domain.PopularDish, 0, len(top))
	for _, entry := range top {
		name, ok := names[entry.DishID]
		if !ok {
			continue
		}
		entry.Name = name
		popular = append(popular, entry)
	}
	return popular, nil
}

func (s *MenuService) Get(ctx context.Context, id int) (*domain.Dish, error) {
	dish, err := s.dishes.GetDish(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrDishNotFound
	}
	return dish, err
}

func (s *MenuService) Create(ctx context.Context, dish *domain.Dish) error {
	if err := dish.Validate(); err != nil {
		return err
	}
	if err := s.dishes.CreateDish(ctx, dish); err != nil {
		return fmt.Errorf("create dish: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) Update(ctx context.Context, dish *domain.Dish) error {
	if err := dish.Validate(); err != nil {
		return err
	}
	err := s.dishes.UpdateDish(ctx, dish)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrDishNotFound
	}
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes the dish. Order lines that referenced it keep their
// snapshot and lose the reference.
func (s *MenuService) Delete(ctx context.Context, id int) error {
	rows, err := s.dishes.DeleteDish(ctx, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	if rows == 0 {
		return ErrDishNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateMenu(ctx); err != nil {
		log.Printf("[menu] cache invalidation failed: %v", err)
	}
}
