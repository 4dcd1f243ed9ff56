// internal/model/order.go
package model

import "time"

type Order struct {
	ID         int       `db:"id" json:"id"`
	CustomerID int       `db:"customer_id" json:"customer_id"`
	Amount     string    `db:"amount" json:"amount"`
	Status     string    `db:"status" json:"status"` // pending, completed, cancelled
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
