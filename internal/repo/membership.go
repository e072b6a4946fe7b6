package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MembershipRepo answers the co-ownership relation the engine trusts as
// already established. How co-ownership is granted is outside this module;
// the scheduler only needs the yes/no lookup.
type MembershipRepo interface {
	// IsCoOwner reports whether userID holds shared rights over vehicleID.
	IsCoOwner(ctx context.Context, vehicleID, userID uuid.UUID) (bool, error)
}

// pgMembershipRepo is the Postgres implementation of MembershipRepo.
type pgMembershipRepo struct {
	db db
}

// NewMembershipRepo constructs a MembershipRepo backed by the provided db
// connection.
func NewMembershipRepo(db db) MembershipRepo {
	return &pgMembershipRepo{db: db}
}

// IsCoOwner checks the vehicle_co_owners join table.
func (r *pgMembershipRepo) IsCoOwner(ctx context.Context, vehicleID, userID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM vehicle_co_owners
			WHERE vehicle_id = @vehicle_id AND user_id = @user_id
		)`

	var ok bool
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID, "user_id": userID})
	if err := row.Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.MembershipRepo.IsCoOwner: %w", err)
	}
	return ok, nil
}
