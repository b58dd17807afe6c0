package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/deep-thoughts/backend/internal/user/domain"
)

var (
	ErrUserNotFound          = pgx.ErrNoRows
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrFriendMissing         = errors.New("friend does not exist")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	AddFriend(ctx context.Context, userID, friendID domain.ID) error
	FriendsOf(ctx context.Context, userIDs []domain.ID) (map[domain.ID][]domain.Summary, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		string(user.ID),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return ErrEmailAlreadyExists
			}
			return ErrUsernameAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, string(id))
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *PgRepository) findOne(ctx context.Context, where string, arg any) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, email, password_hash, created_at FROM users `+where,
		arg,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (r *PgRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users
		 ORDER BY username ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return users, nil
}

// AddFriend has add-to-set semantics: a single atomic statement that is a
// no-op when the pair already exists, so repeated calls never duplicate.
func (r *PgRepository) AddFriend(ctx context.Context, userID, friendID domain.ID) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO user_friends (user_id, friend_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, friend_id) DO NOTHING`,
		string(userID),
		string(friendID),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrFriendMissing
		}
		return fmt.Errorf("failed to add friend: %w", err)
	}
	return nil
}

func (r *PgRepository) FriendsOf(ctx context.Context, userIDs []domain.ID) (map[domain.ID][]domain.Summary, error) {
	if len(userIDs) == 0 {
		return map[domain.ID][]domain.Summary{}, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = string(id)
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT f.user_id, u.id, u.username, u.email
		 FROM user_friends f
		 JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id = ANY($1)
		 ORDER BY u.username ASC`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}
	defer rows.Close()

	friends := make(map[domain.ID][]domain.Summary)
	for rows.Next() {
		var ownerID domain.ID
		var s domain.Summary
		if err := rows.Scan(&ownerID, &s.ID, &s.Username, &s.Email); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends[ownerID] = append(friends[ownerID], s)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return friends, nil
}
