// internal/service/order_service.go
package service

import (
	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
)

type OrderService struct {
	OrderRepo    repository.OrderRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
}

// CreateOrder appends the order and bumps the customer's spend, visit count
// and last visit. The customer mutation is a single atomic UPDATE, but no
// transaction spans the two writes.
func (s *OrderService) CreateOrder(customerID int, amount, status string) (*model.Order, error) {
	customer, err := s.CustomerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, appErrors.NewCustomerNotFound(customerID)
	}

	o := &model.Order{
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
	}
	if err := s.OrderRepo.Create(o); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.ApplyOrder(customerID, amount); err != nil {
		return nil, err
	}

	return o, nil
}
