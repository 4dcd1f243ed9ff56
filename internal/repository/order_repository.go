package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/pulsecrm-backend/internal/model"
)

type OrderRepositoryInterface interface {
	Create(o *model.Order) error
	ListByCustomer(customerID int) ([]model.Order, error)
}

type OrderRepository struct {
	DB *sql.DB
}

func (r *OrderRepository) Create(o *model.Order) error {
	o.CreatedAt = time.Now()
	if o.Status == "" {
		o.Status = "completed"
	}
	query := `
        INSERT INTO orders (customer_id, amount, status, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRow(query, o.CustomerID, o.Amount, o.Status, o.CreatedAt).Scan(&o.ID)
}

func (r *OrderRepository) ListByCustomer(customerID int) ([]model.Order, error) {
	query := `
        SELECT id, customer_id, amount, status, created_at
        FROM orders
        WHERE customer_id = $1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Amount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

var _ OrderRepositoryInterface = (*OrderRepository)(nil)
