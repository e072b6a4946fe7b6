package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jpradel/carshare/backend/internal/domain"
)

// UserRepo reads co-owner identities. User records are written by the
// external identity system; this module only reads them to attach a full
// identity to settlement results.
type UserRepo interface {
	// GetByID retrieves a user by UUID. Returns domain.ErrNotFound if no
	// user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

// GetByID retrieves a user by primary key.
func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT id, name, email FROM users WHERE id = @id`

	var (
		u   domain.User
		uid pgtype.UUID
	)
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	if err := row.Scan(&uid, &u.Name, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	u.ID = uuid.UUID(uid.Bytes)

	return u, nil
}
