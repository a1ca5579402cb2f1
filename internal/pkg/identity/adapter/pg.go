package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatline/internal/pkg/identity/port"
)

// PgDirectory resolves profiles from the users table owned by the profile
// subsystem. Read-only from this module's point of view.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

var _ port.Directory = (*PgDirectory)(nil)

func (d *PgDirectory) Lookup(ctx context.Context, id int64) (port.Profile, error) {
	var p port.Profile
	var avatar *string
	err := d.pool.QueryRow(ctx,
		`SELECT id, email, username, avatar FROM users WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Address, &p.DisplayName, &avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.Profile{}, fmt.Errorf("%w: id %d", port.ErrUnknownIdentity, id)
	}
	if err != nil {
		return port.Profile{}, err
	}
	if avatar != nil {
		p.Avatar = *avatar
	}
	return p, nil
}

// PgGraph answers the mutual-follow predicate against the follows table.
type PgGraph struct {
	pool *pgxpool.Pool
}

func NewPgGraph(pool *pgxpool.Pool) *PgGraph {
	return &PgGraph{pool: pool}
}

var _ port.Graph = (*PgGraph)(nil)

func (g *PgGraph) MutualFollowers(ctx context.Context, a, b int64) (bool, error) {
	var mutual bool
	err := g.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)
		   AND EXISTS (SELECT 1 FROM follows WHERE follower_id = $2 AND following_id = $1)
	`, a, b).Scan(&mutual)
	if err != nil {
		return false, err
	}
	return mutual, nil
}
