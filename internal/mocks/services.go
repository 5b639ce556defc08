package mocks

import (
	"context"

	"food-ordering/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuService struct {
	mock.Mock
}

func NewMenuService(t testingT) *MenuService {
	m := &MenuService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuService) Menu(ctx context.Context) ([]domain.Dish, error) {
	args := m.Called(ctx)
	dishes, _ := args.Get(0).([]domain.Dish)
	return dishes, args.Error(1)
}

func (m *MenuService) PopularToday(ctx context.Context, limit int) ([]domain.PopularDish, error) {
	args := m.Called(ctx, limit)
	top, _ := args.Get(0).([]domain.PopularDish)
	return top, args.Error(1)
}

func (m *MenuService) Get(ctx context.Context, id int) (*domain.Dish, error) {
	args := m.Called(ctx, id)
	dish, _ := args.Get(0).(*domain.Dish)
	return dish, args.Error(1)
}

func (m *MenuService) Create(ctx context.Context, dish *domain.Dish) error {
	return m.Called(ctx, dish).Error(0)
}

func (m *MenuService) Update(ctx context.Context, dish *domain.Dish) error {
	return m.Called(ctx, dish).Error(0)
}

func (m *MenuService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type OrderService struct {
	mock.Mock
}

func NewOrderService(t testingT) *OrderService {
	m := &OrderService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderService) Submit(ctx context.Context, submission domain.OrderSubmission) (*domain.Order, error) {
	args := m.Called(ctx, submission)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderService) History(ctx context.Context, userID, page int) (*domain.Page, error) {
	args := m.Called(ctx, userID, page)
	result, _ := args.Get(0).(*domain.Page)
	return result, args.Error(1)
}

type AuthService struct {
	mock.Mock
}

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthService) Register(ctx context.Context, registration domain.Registration) (*domain.User, error) {
	args := m.Called(ctx, registration)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *AuthService) User(ctx context.Context, id int) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	args := m.Called(orderID)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

func (m *QRGenerator) Link(orderID int) string {
	return m.Called(orderID).String(0)
}
