package mocks

import (
	"context"
	"time"

	"food-ordering/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type MenuCache struct {
	mock.Mock
}

func NewMenuCache(t testingT) *MenuCache {
	m := &MenuCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuCache) GetMenu(ctx context.Context) ([]domain.Dish, bool, error) {
	args := m.Called(ctx)
	dishes, _ := args.Get(0).([]domain.Dish)
	return dishes, args.Bool(1), args.Error(2)
}

func (m *MenuCache) SetMenu(ctx context.Context, dishes []domain.Dish) error {
	return m.Called(ctx, dishes).Error(0)
}

func (m *MenuCache) InvalidateMenu(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type PopularityStore struct {
	mock.Mock
}

func NewPopularityStore(t testingT) *PopularityStore {
	m := &PopularityStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PopularityStore) IncrementPopularity(ctx context.Context, day time.Time, dishID, count int) error {
	return m.Called(ctx, day, dishID, count).Error(0)
}

func (m *PopularityStore) TopPopular(ctx context.Context, day time.Time, limit int) ([]domain.PopularDish, error) {
	args := m.Called(ctx, day, limit)
	top, _ := args.Get(0).([]domain.PopularDish)
	return top, args.Error(1)
}

type OrderPublisher struct {
	mock.Mock
}

func NewOrderPublisher(t testingT) *OrderPublisher {
	m := &OrderPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderPublisher) PublishOrder(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	message, _ := args.Get(0).(kafka.Message)
	return message, args.Error(1)
}
