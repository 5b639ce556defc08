package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"food-ordering/internal/domain"

	"github.com/shopspring/decimal"
)

type OrderService struct {
	dishes    DishRepository
	orders    OrderRepository
	cache     MenuCache
	publisher OrderPublisher
	now       func() time.Time
}

func NewOrderService(dishes DishRepository, orders OrderRepository, cache MenuCache, publisher OrderPublisher) *OrderService {
	return &OrderService{
		dishes:    dishes,
		orders:    orders,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// Submit validates the contact details, prices every selected dish with a
// positive count and stores the order with its lines. The total is the sum
// of the line prices. A submission without positive counts still creates an
// order, with a zero total and no lines.
func (s *OrderService) Submit(ctx context.Context, submission domain.OrderSubmission) (*domain.Order, error) {
	contact := submission.Contact.Normalize()
	if err := contact.Validate(); err != nil {
		return nil, err
	}

	dishes, err := s.dishes.GetDishesByIDs(ctx, uniqueIDs(submission.DishIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load dishes: %w", err)
	}

	order := &domain.Order{Contact: contact, TotalPrice: decimal.Zero}
	for i, dishID := range submission.DishIDs {
		dish, ok := dishes[dishID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrDishNotFound, dishID)
		}

		count := submission.CountAt(i)
		if count <= 0 {
			continue
		}
		if count > domain.MaxLineCount {
			verr := domain.NewValidationError()
			verr.Add("counts", fmt.Sprintf("Ensure this value is less than or equal to %d.", domain.MaxLineCount))
			return nil, verr
		}

		price := domain.LinePrice(dish.NetPrice, count)
		id := dish.ID
		order.Lines = append(order.Lines, domain.OrderLine{
			DishID:    &id,
			DishName:  dish.Name,
			UnitPrice: dish.NetPrice,
			Count:     count,
			Price:     price,
			UserID:    submission.UserID,
		})
		order.TotalPrice = order.TotalPrice.Add(price)
	}
	if order.TotalPrice.GreaterThan(domain.MaxOrderTotal) {
		verr := domain.NewValidationError()
		verr.Add("counts", "The order total is too large. Order fewer dishes.")
		return nil, verr
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.afterCommit(ctx, order, submission.UserID)
	return order, nil
}

// afterCommit refreshes derived state. Failures never undo the order.
func (s *OrderService) afterCommit(ctx context.Context, order *domain.Order, userID *int) {
	if s.cache != nil {
		if err := s.cache.InvalidateMenu(ctx); err != nil {
			log.Printf("[orders] menu cache invalidation failed: %v", err)
		}
	}
	if s.publisher != nil {
		event := domain.NewOrderPlacedEvent(order, userID, s.now().UTC())
		if err := s.publisher.PublishOrder(ctx, event); err != nil {
			log.Printf("[orders] publish order %d failed: %v", order.ID, err)
		}
	}
}

func (s *OrderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// History returns one page of the orders holding a line submitted by userID,
// newest first. Page numbers below 1 are treated as 1.
func (s *OrderService) History(ctx context.Context, userID, page int) (*domain.Page, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.orders.CountUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &domain.Page{Number: page, Size: domain.HistoryPageSize, Total: total}
	if page > result.TotalPages() {
		return nil, ErrPageNotFound
	}
	if total == 0 {
		result.Orders = []domain.Order{}
		return result, nil
	}

	orders, err := s.orders.ListUserOrders(ctx, userID, domain.HistoryPageSize, domain.Offset(page, domain.HistoryPageSize))
	if err != nil {
		return nil, err
	}
	result.Orders = orders
	return result, nil
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
