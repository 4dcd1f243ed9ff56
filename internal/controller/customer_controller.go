// internal/controller/customer_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
)

type CustomerController struct {
	CustomerRepo repository.CustomerRepositoryInterface
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit := 100
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	customers, err := c.CustomerRepo.List(limit, offset)
	if err != nil {
		writeError(w, err, "Failed to fetch customers")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email         string     `json:"email"`
		Name          string     `json:"name"`
		TotalSpent    string     `json:"total_spent"`
		VisitCount    int        `json:"visit_count"`
		LastVisit     *time.Time `json:"last_visit,omitempty"`
		Status        string     `json:"status"`
		Location      string     `json:"location"`
		EmailVerified bool       `json:"email_verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var fields []appErrors.FieldError
	if body.Email == "" {
		fields = append(fields, appErrors.FieldError{Field: "email", Reason: "email is required"})
	}
	if body.Name == "" {
		fields = append(fields, appErrors.FieldError{Field: "name", Reason: "name is required"})
	}
	if len(fields) > 0 {
		writeError(w, appErrors.NewValidation(fields...), "Invalid customer data")
		return
	}

	customer := &model.Customer{
		Email:         body.Email,
		Name:          body.Name,
		TotalSpent:    body.TotalSpent,
		VisitCount:    body.VisitCount,
		LastVisit:     body.LastVisit,
		Status:        body.Status,
		Location:      body.Location,
		EmailVerified: body.EmailVerified,
	}
	if err := c.CustomerRepo.Create(customer); err != nil {
		writeError(w, err, "Failed to create customer")
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}
