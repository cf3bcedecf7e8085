package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forkful/api/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.SessionRepository = (*Repository)(nil)
	_ repository.RecipeRepository  = (*Repository)(nil)
)
