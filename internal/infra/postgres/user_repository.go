package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/domain/user"
)

// UserRepository handles database operations for users.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, display_name, password_hash, role, active, created_at, updated_at`

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO usuarios (id, username, email, display_name, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		u.ID.String(), u.Username, nullString(u.Email), nullString(u.DisplayName),
		u.PasswordHash, string(u.Role), u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.AlreadyExistsError(u.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id shared.ID) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE id = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id.String()))
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE username = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// Update updates a user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE usuarios
		SET username = $2, email = $3, display_name = $4, password_hash = $5,
		    role = $6, active = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		u.ID.String(), u.Username, nullString(u.Email), nullString(u.DisplayName),
		u.PasswordHash, string(u.Role), u.Active, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.AlreadyExistsError(u.Username)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Delete removes a user. The user's permission overrides follow via
// FK cascade; history entries keep their denormalized username.
func (r *UserRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// List returns all users ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios ORDER BY username ASC`, userColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// ExistsByUsername reports whether a user with the given username exists.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM usuarios WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanOne(row *sql.Row) (*user.User, error) {
	u, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) scanRow(s rowScanner) (*user.User, error) {
	var (
		u           user.User
		idStr       string
		email       sql.NullString
		displayName sql.NullString
		role        string
	)

	err := s.Scan(
		&idStr, &u.Username, &email, &displayName,
		&u.PasswordHash, &role, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in database: %w", err)
	}

	u.ID = id
	u.Email = nullStringValue(email)
	u.DisplayName = nullStringValue(displayName)
	u.Role = user.Role(role)

	return &u, nil
}
