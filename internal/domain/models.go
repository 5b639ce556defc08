package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is a menu item. OrderCount is filled only by menu queries.
type Dish struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	NetPrice    decimal.Decimal `json:"net_price"`
	Image       string          `json:"image"`
	OrderCount  int             `json:"order_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Contact struct {
	Name    string `json:"customer_name"`
	Email   string `json:"customer_email"`
	Phone   string `json:"customer_phone"`
	Address string `json:"customer_address"`
}

type Order struct {
	ID         int             `json:"id"`
	Contact    Contact         `json:"contact"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	Lines      []OrderLine     `json:"lines"`
}

// OrderLine keeps a snapshot of the dish name and unit price, so the line
// survives later edits or removal of the dish (DishID becomes nil).
type OrderLine struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"order_id"`
	DishID    *int            `json:"dish_id"`
	DishName  string          `json:"dish_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Count     int             `json:"count"`
	Price     decimal.Decimal `json:"price"`
	UserID    *int            `json:"user_id"`
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderSubmission is a cart as posted by the order form. Counts is parallel
// to DishIDs; a missing entry means a count of 1.
type OrderSubmission struct {
	Contact Contact
	DishIDs []int
	Counts  []int
	UserID  *int
}

// CountAt returns the requested count for the i-th selected dish.
func (s OrderSubmission) CountAt(i int) int {
	if i < len(s.Counts) {
		return s.Counts[i]
	}
	return 1
}

// Limits of the order_lines.count and NUMERIC(8,2) price columns.
const MaxLineCount = 1000

var MaxOrderTotal = decimal.RequireFromString("999999.99")

// LinePrice is unit × count rounded to cents.
func LinePrice(unit decimal.Decimal, count int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(count))).Round(2)
}

const EventOrderPlaced = "order_placed"

type OrderEvent struct {
	Type       string           `json:"type"`
	OrderID    int              `json:"order_id"`
	UserID     *int             `json:"user_id"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Lines      []OrderEventLine `json:"lines"`
	Timestamp  time.Time        `json:"timestamp"`
}

type OrderEventLine struct {
	DishID *int            `json:"dish_id"`
	Count  int             `json:"count"`
	Price  decimal.Decimal `json:"price"`
}

// NewOrderPlacedEvent builds the event published after an order is stored.
func NewOrderPlacedEvent(order *Order, userID *int, at time.Time) OrderEvent {
	lines := make([]OrderEventLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderEventLine{DishID: line.DishID, Count: line.Count, Price: line.Price})
	}
	return OrderEvent{
		Type:       EventOrderPlaced,
		OrderID:    order.ID,
		UserID:     userID,
		TotalPrice: order.TotalPrice,
		Lines:      lines,
		Timestamp:  at,
	}
}

type PopularDish struct {
	DishID int    `json:"dish_id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}
