package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
// Duplicate detection relies on the unique index on email rather than a
// read-then-write check, so concurrent signups for one address cannot race.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// Create inserts a registration record, returning domain.ErrDuplicateEmail
// when the address is already registered.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
INSERT INTO users (id, first_name, last_name, email, registered_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, first_name, last_name, email, registered_at;
`
	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.RegisteredAt,
	)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

// FindByEmail fetches a user by exact email match.
func (r *UserRepositoryPG) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, first_name, last_name, email, registered_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// List returns the most recent registrations, newest first.
func (r *UserRepositoryPG) List(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT id, first_name, last_name, email, registered_at FROM users ORDER BY registered_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.RegisteredAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Stats summarizes the repository.
func (r *UserRepositoryPG) Stats(ctx context.Context) (*domain.UserStats, error) {
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`)
	var total int64
	if err := row.Scan(&total); err != nil {
		return nil, err
	}
	return &domain.UserStats{TotalUsers: total}, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.RegisteredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
