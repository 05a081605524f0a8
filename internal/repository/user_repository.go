package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, name, role, telegram_chat_id, created_at`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(b *base.Repository) *UserRepository {
	return &UserRepository{Repository: b}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (email, name, role, telegram_chat_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		user.Email,
		user.Name,
		user.Role,
		user.TelegramChatID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when no user exists
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByIDAndRole finds a user only if it holds the given role
func (r *UserRepository) GetByIDAndRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2`

	user, err := scanUser(r.QueryRow(ctx, query, id, role))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id and role: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.QueryRow(ctx, query, email))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// GetByTelegramChatID returns nil, nil when no user linked the chat
func (r *UserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_chat_id = $1 ORDER BY created_at LIMIT 1`

	user, err := scanUser(r.QueryRow(ctx, query, chatID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by telegram chat id: %w", err)
	}

	return user, nil
}

// GetByIDs returns the users found among ids, in no particular order
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`

	rows, err := r.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}

	return collectUsers(rows)
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY name`

	rows, err := r.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}

	return collectUsers(rows)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.TelegramChatID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func collectUsers(rows pgx.Rows) ([]*model.User, error) {
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
