// internal/model/user.go
package model

import "time"

type User struct {
	ID        int       `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	GoogleID  *string   `db:"google_id" json:"google_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
