// internal/controller/order_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/service"
)

type OrderController struct {
	OrderService *service.OrderService
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerID int    `json:"customer_id"`
		Amount     string `json:"amount"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var fields []appErrors.FieldError
	if body.CustomerID <= 0 {
		fields = append(fields, appErrors.FieldError{Field: "customer_id", Reason: "customer_id is required"})
	}
	if body.Amount == "" {
		fields = append(fields, appErrors.FieldError{Field: "amount", Reason: "amount is required"})
	}
	if len(fields) > 0 {
		writeError(w, appErrors.NewValidation(fields...), "Invalid order data")
		return
	}

	order, err := c.OrderService.CreateOrder(body.CustomerID, body.Amount, body.Status)
	if err != nil {
		writeError(w, err, "Failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
