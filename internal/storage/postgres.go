package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"food-ordering/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func intOrNull(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

const dishColumns = "d.id, d.name, d.description, d.net_price, COALESCE(d.image, ''), d.created_at"

func (r *PostgresRepository) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+dishColumns+`, COUNT(l.id)
		FROM dishes d
		LEFT JOIN order_lines l ON l.dish_id = d.id
		GROUP BY d.id
		ORDER BY d.name, d.id`)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		var dish domain.Dish
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.NetPrice, &dish.Image, &dish.CreatedAt, &dish.OrderCount); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *PostgresRepository) GetDish(ctx context.Context, id int) (*domain.Dish, error) {
	var dish domain.Dish
	err := r.DB.QueryRowContext(ctx, "SELECT "+dishColumns+" FROM dishes d WHERE d.id = $1", id).
		Scan(&dish.ID, &dish.Name, &dish.Description, &dish.NetPrice, &dish.Image, &dish.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &dish, nil
}

// GetDishesByIDs returns the dishes found among ids, keyed by id.
func (r *PostgresRepository) GetDishesByIDs(ctx context.Context, ids []int) (map[int]domain.Dish, error) {
	found := make(map[int]domain.Dish, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.DB.QueryContext(ctx, "SELECT "+dishColumns+" FROM dishes d WHERE d.id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load dishes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dish domain.Dish
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.NetPrice, &dish.Image, &dish.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		found[dish.ID] = dish
	}
	return found, rows.Err()
}

func (r *PostgresRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	return r.DB.QueryRowContext(ctx,
		"INSERT INTO dishes (name, description, net_price, image) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		dish.Name, dish.Description, dish.NetPrice, dish.Image).
		Scan(&dish.ID, &dish.CreatedAt)
}

func (r *PostgresRepository) UpdateDish(ctx context.Context, dish *domain.Dish) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE dishes
		SET name=$1, description=$2, net_price=$3, image=$4
		WHERE id=$5
		RETURNING created_at`,
		dish.Name, dish.Description, dish.NetPrice, dish.Image, dish.ID).
		Scan(&dish.CreatedAt)
	return notFound(err)
}

func (r *PostgresRepository) DeleteDish(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM dishes WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CreateOrder stores the order and its lines in one transaction. IDs and
// created_at are written back into order.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	c := order.Contact
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_name, customer_email, customer_phone, customer_address, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.Name, c.Email, c.Phone, c.Address, order.TotalPrice).Scan(&order.ID, &order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_lines (order_id, dish_id, dish_name, unit_price, count, price, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, order.ID, intOrNull(line.DishID), line.DishName, line.UnitPrice, line.Count, line.Price, intOrNull(line.UserID)).
			Scan(&line.ID); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	return tx.Commit()
}

const orderColumns = "o.id, o.customer_name, o.customer_email, o.customer_phone, o.customer_address, o.total_price, o.created_at"

func scanOrder(row interface{ Scan(...interface{}) error }, order *domain.Order) error {
	c := &order.Contact
	return row.Scan(&order.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &order.TotalPrice, &order.CreatedAt)
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	var order domain.Order
	row := r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders o WHERE o.id = $1", id)
	if err := scanOrder(row, &order); err != nil {
		return nil, notFound(err)
	}

	lines, err := r.linesFor(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[id]
	return &order, nil
}

const userOrdersFilter = `
		FROM orders o
		WHERE EXISTS (
			SELECT 1 FROM order_lines l
			WHERE l.order_id = o.id AND l.user_id = $1
		)`

func (r *PostgresRepository) CountUserOrders(ctx context.Context, userID int) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*)"+userOrdersFilter, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count user orders: %w", err)
	}
	return total, nil
}

// ListUserOrders returns each order holding at least one line submitted by
// userID exactly once, newest first.
func (r *PostgresRepository) ListUserOrders(ctx context.Context, userID, limit, offset int) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+userOrdersFilter+`
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	ids := []int{}
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (r *PostgresRepository) linesFor(ctx context.Context, orderIDs []int) (map[int][]domain.OrderLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, dish_id, dish_name, unit_price, count, price, user_id
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY id`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[int][]domain.OrderLine, len(orderIDs))
	for rows.Next() {
		var (
			line   domain.OrderLine
			dishID sql.NullInt64
			userID sql.NullInt64
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &dishID, &line.DishName, &line.UnitPrice, &line.Count, &line.Price, &userID); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		line.DishID = nullableInt(dishID)
		line.UserID = nullableInt(userID)
		lines[line.OrderID] = append(lines[line.OrderID], line)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO users (username, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id, created_at",
		user.Username, user.PasswordHash, user.IsAdmin).
		Scan(&user.ID, &user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "username = $1", username)
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return r.getUser(ctx, "id = $1", id)
}

func (r *PostgresRepository) getUser(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, is_admin, created_at FROM users WHERE "+where, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
