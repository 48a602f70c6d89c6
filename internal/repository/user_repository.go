package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

// ErrDuplicateEmail is returned when an account with the email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

const pqUniqueViolation = "23505"

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns the account and its profile by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserWithProfile, error) {
	const query = `SELECT u.id, u.email, u.password_hash, u.created_at, p.full_name, p.role
FROM users u
JOIN profiles p ON p.user_id = u.id
WHERE u.email = $1
LIMIT 1`
	var user models.UserWithProfile
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// CreateWithProfile inserts the user and profile in one transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	profile.UserID = user.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin signup tx: %w", err)
	}
	const insertUser = `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	if err := tx.QueryRowxContext(ctx, insertUser, user.ID, user.Email, user.PasswordHash).Scan(&user.CreatedAt); err != nil {
		_ = tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	const insertProfile = `INSERT INTO profiles (user_id, full_name, school_name, role) VALUES ($1, $2, $3, $4) RETURNING created_at`
	if err := tx.QueryRowxContext(ctx, insertProfile, profile.UserID, profile.FullName, profile.SchoolName, profile.Role).Scan(&profile.CreatedAt); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit signup tx: %w", err)
	}
	return nil
}
