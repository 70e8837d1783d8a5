package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/infra/postgres"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new user or updates an existing one.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	query := `
		INSERT INTO users (id, chat_id, is_active, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			is_active = EXCLUDED.is_active
		RETURNING (xmax = 0) AS created
	`

	var created bool
	err := r.db.QueryRow(ctx, query, user.ID, user.ChatID, user.IsActive, user.CreatedAt).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("save user: %w", err)
	}

	return created, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, chat_id, is_active, created_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.ChatID,
		&user.IsActive,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// ListActive returns all users that have not blocked the bot.
func (r *UserRepository) ListActive(ctx context.Context) ([]*entities.User, error) {
	query := `
		SELECT id, chat_id, is_active, created_at
		FROM users
		WHERE is_active
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.ChatID, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Deactivate marks the user as inactive, e.g. after the bot was blocked.
func (r *UserRepository) Deactivate(ctx context.Context, userID int64) error {
	query := "UPDATE users SET is_active = FALSE WHERE id = $1"

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
