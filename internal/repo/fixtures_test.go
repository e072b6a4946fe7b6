package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/jpradel/carshare/backend/testutil"
)

// newTestTx opens a transaction against the test database and registers a
// rollback for when the test finishes. All repos under test share the
// transaction, so every row created here disappears afterwards — no cleanup
// SQL needed.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return tx
}

// seedUser inserts a user row and returns its id. The email is derived from
// a fresh uuid so the unique constraint never trips across fixtures.
func seedUser(t *testing.T, tx pgx.Tx, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := tx.QueryRow(context.Background(),
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
		name, uuid.NewString()+"@example.com",
	).Scan(&id)
	require.NoError(t, err, "seed user")
	return id
}

// seedVehicle inserts a vehicle row and returns its id.
func seedVehicle(t *testing.T, tx pgx.Tx, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := tx.QueryRow(context.Background(),
		`INSERT INTO vehicles (name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id)
	require.NoError(t, err, "seed vehicle")
	return id
}

// seedCoOwner links a user to a vehicle.
func seedCoOwner(t *testing.T, tx pgx.Tx, vehicleID, userID uuid.UUID) {
	t.Helper()
	_, err := tx.Exec(context.Background(),
		`INSERT INTO vehicle_co_owners (vehicle_id, user_id) VALUES ($1, $2)`,
		vehicleID, userID,
	)
	require.NoError(t, err, "seed co-owner")
}

// seedOwnedVehicle creates a user, a vehicle, and the co-ownership link in
// one call — the baseline most repo tests need.
func seedOwnedVehicle(t *testing.T, tx pgx.Tx) (vehicleID, ownerID uuid.UUID) {
	t.Helper()
	ownerID = seedUser(t, tx, "Test Owner")
	vehicleID = seedVehicle(t, tx, "Test Vehicle")
	seedCoOwner(t, tx, vehicleID, ownerID)
	return vehicleID, ownerID
}
