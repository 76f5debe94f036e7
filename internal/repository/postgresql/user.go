package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/staffsync/attendance-backend-go/internal/domain/user"
	"github.com/staffsync/attendance-backend-go/internal/pkg/database"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepository{db: db}
}

// Create implements user.Repository.
func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if newUser.ID == "" {
		newUser.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, name, email, phone, department, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		newUser.ID,
		newUser.Name,
		newUser.Email,
		newUser.Phone,
		newUser.Department,
		newUser.PasswordHash,
		string(newUser.Role),
		string(newUser.Status),
	).Scan(&newUser.CreatedAt, &newUser.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// GetByID implements user.Repository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail implements user.Repository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	query := `
		SELECT id, name, email, phone, department, password_hash, role, status, created_at, updated_at
		FROM users
	` + where + ` LIMIT 1`

	var u user.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Department,
		&u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// ListAdmins implements user.Repository.
func (r *userRepository) ListAdmins(ctx context.Context) ([]user.User, error) {
	query := `
		SELECT id, name, email, phone, department, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE role = 'admin' AND status = 'active'
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.Phone, &u.Department,
			&u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, u)
	}

	return admins, rows.Err()
}

// ListDepartments implements user.Repository.
func (r *userRepository) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT department FROM users WHERE status = 'active' ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	return departments, rows.Err()
}
