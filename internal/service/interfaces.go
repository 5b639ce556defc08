package service

import (
	"context"
	"time"

	"food-ordering/internal/domain"
	"food-ordering/internal/storage"

	"github.com/segmentio/kafka-go"
)

type DishRepository interface {
	ListDishes(ctx context.Context) ([]domain.Dish, error)
	GetDish(ctx context.Context, id int) (*domain.Dish, error)
	GetDishesByIDs(ctx context.Context, ids []int) (map[int]domain.Dish, error)
	CreateDish(ctx context.Context, dish *domain.Dish) error
	UpdateDish(ctx context.Context, dish *domain.Dish) error
	DeleteDish(ctx context.Context, id int) (int64, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	CountUserOrders(ctx context.Context, userID int) (int, error)
	ListUserOrders(ctx context.Context, userID, limit, offset int) ([]domain.Order, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
}

type MenuCache interface {
	GetMenu(ctx context.Context) ([]domain.Dish, bool, error)
	SetMenu(ctx context.Context, dishes []domain.Dish) error
	InvalidateMenu(ctx context.Context) error
}

type PopularityStore interface {
	IncrementPopularity(ctx context.Context, day time.Time, dishID, count int) error
	TopPopular(ctx context.Context, day time.Time, limit int) ([]domain.PopularDish, error)
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type MenuServiceInterface interface {
	Menu(ctx context.Context) ([]domain.Dish, error)
	PopularToday(ctx context.Context, limit int) ([]domain.PopularDish, error)
	Get(ctx context.Context, id int) (*domain.Dish, error)
	Create(ctx context.Context, dish *domain.Dish) error
	Update(ctx context.Context, dish *domain.Dish) error
	Delete(ctx context.Context, id int) error
}

type OrderServiceInterface interface {
	Submit(ctx context.Context, submission domain.OrderSubmission) (*domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	History(ctx context.Context, userID, page int) (*domain.Page, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, registration domain.Registration) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	User(ctx context.Context, id int) (*domain.User, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(ctx context.Context, event domain.OrderEvent)
}

var (
	_ DishRepository  = (*storage.PostgresRepository)(nil)
	_ OrderRepository = (*storage.PostgresRepository)(nil)
	_ UserRepository  = (*storage.PostgresRepository)(nil)
	_ MenuCache       = (*storage.RedisCache)(nil)
	_ PopularityStore = (*storage.RedisCache)(nil)
	_ OrderPublisher  = (*storage.KafkaPublisher)(nil)
	_ MessageReader   = (*kafka.Reader)(nil)

	_ MenuServiceInterface  = (*MenuService)(nil)
	_ OrderServiceInterface = (*OrderService)(nil)
	_ AuthServiceInterface  = (*AuthService)(nil)
	_ ConsumerInterface     = (*Consumer)(nil)
)
