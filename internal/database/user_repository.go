package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pearsgeorgeson22/bus-booking/internal/models"
)

// UserRepository reads the display fields of accounts owned by the auth
// service. The booking core never writes to this table.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, name, email, mobile, created_at FROM users WHERE id = $1`

	err := r.db.Get(user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
