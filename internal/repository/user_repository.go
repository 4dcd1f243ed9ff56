package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/pulsecrm-backend/internal/model"
)

// UserRepositoryInterface defines methods used by the auth flow
type UserRepositoryInterface interface {
	GetByID(id int) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	Create(u *model.User) error
}

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
	query := `
        SELECT id, email, name, google_id, created_at
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.DB.QueryRow(query, id).Scan(&u.ID, &u.Email, &u.Name, &u.GoogleID, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `
        SELECT id, email, name, google_id, created_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.DB.QueryRow(query, email).Scan(&u.ID, &u.Email, &u.Name, &u.GoogleID, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *model.User) error {
	u.CreatedAt = time.Now()
	query := `
        INSERT INTO users (email, name, google_id, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRow(query, u.Email, u.Name, u.GoogleID, u.CreatedAt).Scan(&u.ID)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
