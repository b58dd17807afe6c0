package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/deep-thoughts/backend/internal/thought/domain"
)

var (
	ErrThoughtNotFound = pgx.ErrNoRows
)

type Repository interface {
	Create(ctx context.Context, thought domain.Thought) error
	FindByID(ctx context.Context, id domain.ID) (domain.Thought, error)
	List(ctx context.Context, username string) ([]domain.Thought, error)
	AddReaction(ctx context.Context, thoughtID domain.ID, reaction domain.Reaction) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, thought domain.Thought) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO thoughts (id, body, username, created_at)
		 VALUES ($1, $2, $3, $4)`,
		string(thought.ID),
		thought.Body,
		thought.Username,
		thought.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create thought: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Thought, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, body, username, created_at FROM thoughts WHERE id = $1`,
		string(id),
	)

	var t domain.Thought
	err := row.Scan(&t.ID, &t.Body, &t.Username, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Thought{}, ErrThoughtNotFound
		}
		return domain.Thought{}, fmt.Errorf("failed to find thought: %w", err)
	}

	reactions, err := r.reactionsOf(ctx, []domain.ID{t.ID})
	if err != nil {
		return domain.Thought{}, err
	}
	t.Reactions = reactions[t.ID]

	return t, nil
}

// List returns thoughts newest-first, optionally filtered to one author.
// Reactions are joined in a second batch query.
func (r *PgRepository) List(ctx context.Context, username string) ([]domain.Thought, error) {
	query := `SELECT id, body, username, created_at FROM thoughts`
	args := []any{}
	if username != "" {
		query += ` WHERE username = $1`
		args = append(args, username)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	defer rows.Close()

	var thoughts []domain.Thought
	var ids []domain.ID
	for rows.Next() {
		var t domain.Thought
		if err := rows.Scan(&t.ID, &t.Body, &t.Username, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		thoughts = append(thoughts, t)
		ids = append(ids, t.ID)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	reactions, err := r.reactionsOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range thoughts {
		thoughts[i].Reactions = reactions[thoughts[i].ID]
	}

	return thoughts, nil
}

// AddReaction appends to the parent thought's reaction sequence as a
// single atomic insert. A missing thought surfaces as ErrThoughtNotFound
// via the foreign key, never as a partial write.
func (r *PgRepository) AddReaction(ctx context.Context, thoughtID domain.ID, reaction domain.Reaction) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO reactions (id, thought_id, body, username, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		reaction.ID,
		string(thoughtID),
		reaction.Body,
		reaction.Username,
		reaction.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrThoughtNotFound
		}
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

func (r *PgRepository) reactionsOf(ctx context.Context, thoughtIDs []domain.ID) (map[domain.ID][]domain.Reaction, error) {
	if len(thoughtIDs) == 0 {
		return map[domain.ID][]domain.Reaction{}, nil
	}

	ids := make([]string, len(thoughtIDs))
	for i, id := range thoughtIDs {
		ids[i] = string(id)
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT thought_id, id, body, username, created_at
		 FROM reactions
		 WHERE thought_id = ANY($1)
		 ORDER BY created_at ASC, id ASC`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load reactions: %w", err)
	}
	defer rows.Close()

	reactions := make(map[domain.ID][]domain.Reaction)
	for rows.Next() {
		var ownerID domain.ID
		var re domain.Reaction
		if err := rows.Scan(&ownerID, &re.ID, &re.Body, &re.Username, &re.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions[ownerID] = append(reactions[ownerID], re)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return reactions, nil
}
