package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IdentityRepository maps backend agent ids to local portal user ids.
// One agent may be linked to several portal users (shared team accounts),
// or to none at all.
type IdentityRepository interface {
	ResolveLocalUserIDs(ctx context.Context, zammadUserID int) ([]int, error)
	Link(ctx context.Context, localUserID, zammadUserID int) error
	Unlink(ctx context.Context, localUserID, zammadUserID int) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) ResolveLocalUserIDs(ctx context.Context, zammadUserID int) ([]int, error) {
	const query = `
        SELECT local_user_id FROM user_identities
        WHERE zammad_user_id=$1 ORDER BY local_user_id`

	rows, err := r.pool.Query(ctx, query, zammadUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0, 1)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *identityRepository) Link(ctx context.Context, localUserID, zammadUserID int) error {
	const query = `
        INSERT INTO user_identities (local_user_id, zammad_user_id)
        VALUES ($1, $2)
        ON CONFLICT (local_user_id, zammad_user_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, localUserID, zammadUserID)
	return err
}

func (r *identityRepository) Unlink(ctx context.Context, localUserID, zammadUserID int) error {
	const query = `
        DELETE FROM user_identities
        WHERE local_user_id=$1 AND zammad_user_id=$2`

	_, err := r.pool.Exec(ctx, query, localUserID, zammadUserID)
	return err
}
