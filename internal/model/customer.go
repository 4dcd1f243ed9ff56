// internal/model/customer.go
package model

import "time"

type Customer struct {
	ID               int        `db:"id" json:"id"`
	Email            string     `db:"email" json:"email"`
	Name             string     `db:"name" json:"name"`
	TotalSpent       string     `db:"total_spent" json:"total_spent"`
	VisitCount       int        `db:"visit_count" json:"visit_count"`
	LastVisit        *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	RegistrationDate time.Time  `db:"registration_date" json:"registration_date"`
	Status           string     `db:"status" json:"status"` // active, inactive, vip
	Location         string     `db:"location" json:"location"`
	EmailVerified    bool       `db:"email_verified" json:"email_verified"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}
