package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/segment"
)

// CustomerRepositoryInterface defines methods used by services
type CustomerRepositoryInterface interface {
	GetByID(id int) (*model.Customer, error)
	List(limit, offset int) ([]model.Customer, error)
	Count() (int, error)
	Create(c *model.Customer) error
	ListBySegment(rules segment.Rules) ([]model.Customer, error)
	CountBySegment(rules segment.Rules) (int, error)
	ApplyOrder(customerID int, amount string) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, email, name, total_spent, visit_count, last_visit, registration_date, status, location, email_verified, created_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID, &c.Email, &c.Name, &c.TotalSpent, &c.VisitCount, &c.LastVisit,
		&c.RegistrationDate, &c.Status, &c.Location, &c.EmailVerified, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) List(limit, offset int) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Count() (int, error) {
	var count int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CustomerRepository) Create(c *model.Customer) error {
	now := time.Now()
	c.CreatedAt = now
	c.RegistrationDate = now
	if c.Status == "" {
		c.Status = "active"
	}
	if c.TotalSpent == "" {
		c.TotalSpent = "0"
	}
	query := `
        INSERT INTO customers (email, name, total_spent, visit_count, last_visit, registration_date, status, location, email_verified, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	return r.DB.QueryRow(
		query,
		c.Email, c.Name, c.TotalSpent, c.VisitCount, c.LastVisit,
		c.RegistrationDate, c.Status, c.Location, c.EmailVerified, c.CreatedAt,
	).Scan(&c.ID)
}

// ListBySegment fetches customers matching every rule (AND semantics).
// An empty rule set matches nobody, not everyone.
func (r *CustomerRepository) ListBySegment(rules segment.Rules) ([]model.Customer, error) {
	if len(rules) == 0 {
		return []model.Customer{}, nil
	}
	where, args := segment.Conditions(rules, 1)
	query := `SELECT ` + customerColumns + ` FROM customers WHERE ` + where
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// CountBySegment returns the audience size for a rule set.
func (r *CustomerRepository) CountBySegment(rules segment.Rules) (int, error) {
	if len(rules) == 0 {
		return 0, nil
	}
	where, args := segment.Conditions(rules, 1)
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ApplyOrder bumps the customer's spend, visit count and last visit in a
// single atomic UPDATE; no read-modify-write.
func (r *CustomerRepository) ApplyOrder(customerID int, amount string) error {
	query := `
        UPDATE customers
        SET total_spent = total_spent + $1::numeric,
            visit_count = visit_count + 1,
            last_visit = NOW()
        WHERE id = $2
    `
	res, err := r.DB.Exec(query, amount, customerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewCustomerNotFound(customerID)
	}
	return nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
