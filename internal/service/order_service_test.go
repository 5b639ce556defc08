package service_test

import (
	"context"
	"errors"
	"testing"

	"food-ordering/internal/domain"
	"food-ordering/internal/mocks"
	"food-ordering/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var validContact = domain.Contact{Name: "Jan", Email: "jan@example.com", Phone: "123456789", Address: "Main 1"}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(n int) *int { return &n }

func catalog() map[int]domain.Dish {
	return map[int]domain.Dish{
		1: {ID: 1, Name: "Pierogi", NetPrice: price("25.00")},
		2: {ID: 2, Name: "Zurek", NetPrice: price("15.00")},
	}
}

type orderMocks struct {
	dishes    *mocks.DishRepository
	orders    *mocks.OrderRepository
	cache     *mocks.MenuCache
	publisher *mocks.OrderPublisher
}

func newOrderService(t *testing.T) (*service.OrderService, orderMocks) {
	m := orderMocks{
		dishes:    mocks.NewDishRepository(t),
		orders:    mocks.NewOrderRepository(t),
		cache:     mocks.NewMenuCache(t),
		publisher: mocks.NewOrderPublisher(t),
	}
	return service.NewOrderService(m.dishes, m.orders, m.cache, m.publisher), m
}

func TestOrderService_Submit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		submission    domain.OrderSubmission
		prepareMocks  func(m orderMocks)
		expectedError error
		expectedTotal string
		expectedLines []string
	}{
		{
			name: "success_two_dishes",
			submission: domain.OrderSubmission{
				Contact: validContact, DishIDs: []int{1, 2}, Counts: []int{2, 3}, UserID: intPtr(9),
			},
			prepareMocks: func(m orderMocks) {
				m.dishes.On("GetDishesByIDs", ctx, []int{1, 2}).Return(catalog(), nil).Once()
				m.orders.On("CreateOrder", ctx, mock.Anything).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Order).ID = 7
				}).Return(nil).Once()
				m.cache.On("InvalidateMenu", ctx).Return(nil).Once()
				m.publisher.On("PublishOrder", ctx, mock.MatchedBy(func(event domain.OrderEvent) bool {
					return event.Type == domain.EventOrderPlaced && event.OrderID == 7 &&
						len(event.Lines) == 2 && *event.UserID == 9
				})).Return(nil).Once()
			},
			expectedTotal: "95.00",
			expectedLines: []string{"50.00", "45.00"},
		},
		{
			name: "missing_counts_default_to_one",
			submission: domain.OrderSubmission{
				Contact: validContact, DishIDs: []int{1, 2},
			},
			prepareMocks: func(m orderMocks) {
				m.dishes.On("GetDishesByIDs", ctx, []int{1, 2}).Return(catalog(), nil).Once()
				m.orders.On("CreateOrder", ctx, mock.Anything).Return(nil).Once()
				m.cache.On("InvalidateMenu", ctx).Return(nil).Once()
				m.publisher.On("PublishOrder", ctx, mock.Anything).Return(nil).Once()
			},
			expectedTotal: "40.00",
			expectedLines: []string{"25.00", "15.00"},
		},
		{
			name: "non_positive_counts_are_skipped",
			submission: domain.OrderSubmission{
				Contact: validContact, DishIDs: []int{1, 2}, Counts: []int{0, -1},
			},
			prepareMocks: func(m orderMocks) {
				m.dishes.On("GetDishesByIDs", ctx, []int{1, 2}).Return(catalog(), nil).Once()
				m.orders.On("CreateOrder", ctx, mock.Anything).Return(nil).Once()
				m.cache.On("InvalidateMenu", ctx).Return(nil).Once()
				m.publisher.On("PublishOrder", ctx, mock.Anything).Return(nil).Once()
			},
			expectedTotal: "0",
			expectedLines: nil,
		},
		{
			name: "error_unknown_dish",
			submission: domain.OrderSubmission{
				Contact: validContact, DishIDs: []int{1, 42}, Counts: []int{1, 1},
			},
			prepareMocks: func(m orderMocks) {
				m.dishes.On("GetDishesByIDs", ctx, []int{1, 42}).Return(catalog(), nil).Once()
			},
			expectedError: service.ErrDishNotFound,
		},
		{
			name: "side_effect_failures_do_not_fail_the_order",
			submission: domain.OrderSubmission{
				Contact: validContact, DishIDs: []int{2}, Counts: []int{3},
			},
			prepareMocks: func(m orderMocks) {
				m.dishes.On("GetDishesByIDs", ctx, []int{2}).Return(catalog(), nil).Once()
				m.orders.On("CreateOrder", ctx, mock.Anything).Return(nil).Once()
				m.cache.On("InvalidateMenu", ctx).Return(errors.New("redis down")).Once()
				m.publisher.On("PublishOrder", ctx, mock.Anything).Return(errors.New("kafka down")).Once()
			},
			expectedTotal: "45.00",
			expectedLines: []string{"45.00"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, m := newOrderService(t)
			testCase.prepareMocks(m)

			order, err := svc.Submit(ctx, testCase.submission)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.Nil(t, order)
				return
			}

			require.NoError(t, err)
			assert.True(t, price(testCase.expectedTotal).Equal(order.TotalPrice), "total %s", order.TotalPrice)
			require.Len(t, order.Lines, len(testCase.expectedLines))

			sum := decimal.Zero
			for i, line := range order.Lines {
				assert.True(t, price(testCase.expectedLines[i]).Equal(line.Price))
				assert.True(t, line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Count))).Equal(line.Price))
				assert.Equal(t, testCase.submission.UserID, line.UserID)
				sum = sum.Add(line.Price)
			}
			assert.True(t, sum.Equal(order.TotalPrice))
		})
	}
}

func TestOrderService_Submit_ValidationError(t *testing.T) {
	svc, _ := newOrderService(t)

	_, err := svc.Submit(context.Background(), domain.OrderSubmission{
		Contact: domain.Contact{Name: "", Email: "not-an-email", Phone: "12345678901", Address: "x"},
		DishIDs: []int{1},
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.For("customer_name"))
	assert.NotEmpty(t, verr.For("customer_email"))
	assert.NotEmpty(t, verr.For("customer_phone"))
}

func TestOrderService_Submit_CountLimits(t *testing.T) {
	ctx := context.Background()
	expensive := map[int]domain.Dish{
		1: {ID: 1, Name: "Caviar", NetPrice: price("999.99")},
		2: {ID: 2, Name: "Truffle", NetPrice: price("999.99")},
	}

	tests := []struct {
		name       string
		dishes     map[int]domain.Dish
		submission domain.OrderSubmission
	}{
		{
			name:       "count_above_limit",
			dishes:     catalog(),
			submission: domain.OrderSubmission{Contact: validContact, DishIDs: []int{1}, Counts: []int{domain.MaxLineCount + 1}},
		},
		{
			name:   "total_above_column_limit",
			dishes: expensive,
			submission: domain.OrderSubmission{
				Contact: validContact, DishIDs: []int{1, 2}, Counts: []int{domain.MaxLineCount, domain.MaxLineCount},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, m := newOrderService(t)
			m.dishes.On("GetDishesByIDs", ctx, testCase.submission.DishIDs).Return(testCase.dishes, nil).Once()

			order, err := svc.Submit(ctx, testCase.submission)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.For("counts"))
			assert.Nil(t, order)
		})
	}
}

func TestOrderService_Submit_SnapshotsDish(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	m.dishes.On("GetDishesByIDs", ctx, []int{1}).Return(catalog(), nil).Once()
	m.orders.On("CreateOrder", ctx, mock.MatchedBy(func(order *domain.Order) bool {
		line := order.Lines[0]
		return order.Contact == validContact && *line.DishID == 1 && line.DishName == "Pierogi" &&
			line.UnitPrice.Equal(price("25.00")) && line.Count == 4
	})).Return(nil).Once()
	m.cache.On("InvalidateMenu", ctx).Return(nil).Once()
	m.publisher.On("PublishOrder", ctx, mock.Anything).Return(nil).Once()

	padded := validContact
	padded.Name = "  Jan  "
	_, err := svc.Submit(ctx, domain.OrderSubmission{Contact: padded, DishIDs: []int{1}, Counts: []int{4}})
	assert.NoError(t, err)
}

func TestOrderService_Submit_RepositoryError(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	m.dishes.On("GetDishesByIDs", ctx, []int{1}).Return(catalog(), nil).Once()
	m.orders.On("CreateOrder", ctx, mock.Anything).Return(errors.New("tx aborted")).Once()

	_, err := svc.Submit(ctx, domain.OrderSubmission{Contact: validContact, DishIDs: []int{1}})
	assert.ErrorContains(t, err, "tx aborted")
}

func TestOrderService_Get(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	expected := &domain.Order{ID: 7, Contact: validContact, TotalPrice: price("95.00")}
	m.orders.On("GetOrder", ctx, 7).Return(expected, nil).Once()
	m.orders.On("GetOrder", ctx, 8).Return(nil, domain.ErrNotFound).Once()

	order, err := svc.Get(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, expected, order)

	_, err = svc.Get(ctx, 8)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_History(t *testing.T) {
	ctx := context.Background()
	pageOrders := []domain.Order{{ID: 12}, {ID: 11}}

	tests := []struct {
		name           string
		page           int
		prepareMocks   func(m orderMocks)
		expectedError  error
		expectedNumber int
		expectedOrders int
		hasNext        bool
	}{
		{
			name: "empty_history_first_page",
			page: 1,
			prepareMocks: func(m orderMocks) {
				m.orders.On("CountUserOrders", ctx, 3).Return(0, nil).Once()
			},
			expectedNumber: 1,
		},
		{
			name: "invalid_page_falls_back_to_first",
			page: 0,
			prepareMocks: func(m orderMocks) {
				m.orders.On("CountUserOrders", ctx, 3).Return(12, nil).Once()
				m.orders.On("ListUserOrders", ctx, 3, 10, 0).Return(pageOrders, nil).Once()
			},
			expectedNumber: 1,
			expectedOrders: 2,
			hasNext:        true,
		},
		{
			name: "second_page",
			page: 2,
			prepareMocks: func(m orderMocks) {
				m.orders.On("CountUserOrders", ctx, 3).Return(12, nil).Once()
				m.orders.On("ListUserOrders", ctx, 3, 10, 10).Return(pageOrders, nil).Once()
			},
			expectedNumber: 2,
			expectedOrders: 2,
		},
		{
			name: "error_page_out_of_range",
			page: 3,
			prepareMocks: func(m orderMocks) {
				m.orders.On("CountUserOrders", ctx, 3).Return(12, nil).Once()
			},
			expectedError: service.ErrPageNotFound,
		},
		{
			name: "error_empty_history_second_page",
			page: 2,
			prepareMocks: func(m orderMocks) {
				m.orders.On("CountUserOrders", ctx, 3).Return(0, nil).Once()
			},
			expectedError: service.ErrPageNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, m := newOrderService(t)
			testCase.prepareMocks(m)

			result, err := svc.History(ctx, 3, testCase.page)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedNumber, result.Number)
			assert.Len(t, result.Orders, testCase.expectedOrders)
			assert.Equal(t, testCase.hasNext, result.HasNext())
		})
	}
}
