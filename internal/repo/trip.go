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

// TripRepo defines the persistence operations for Trips.
// Trips are append-only: there is no update or delete.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// ListByVehicle returns every trip recorded for a vehicle, ordered by
	// started_at ascending. The usage ledger aggregates over this.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
// The distance_km column is nullable for rows imported from older logs;
// scanTrip reads NULL back as 0.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (vehicle_id, owner_id, distance_km, started_at, ended_at)
		VALUES (@vehicle_id, @owner_id, @distance_km, @started_at, @ended_at)
		RETURNING id, vehicle_id, owner_id, distance_km, started_at, ended_at, created_at`

	args := pgx.NamedArgs{
		"vehicle_id":  trip.VehicleID,
		"owner_id":    trip.OwnerID,
		"distance_km": trip.DistanceKm,
		"started_at":  trip.StartedAt,
		"ended_at":    trip.EndedAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// ListByVehicle returns every trip for a vehicle ordered by started_at.
func (r *pgTripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT id, vehicle_id, owner_id, distance_km, started_at, ended_at, created_at
		FROM trips
		WHERE vehicle_id = @vehicle_id
		ORDER BY started_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByVehicle: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByVehicle: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByVehicle: rows: %w", err)
	}

	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// A NULL distance_km reads back as 0, matching the ledger's treatment of
// unrecorded distances.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id, vid  pgtype.UUID
		oid      pgtype.UUID
		distance pgtype.Float8
	)

	err := s.Scan(&id, &vid, &oid, &distance, &t.StartedAt, &t.EndedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.VehicleID = uuid.UUID(vid.Bytes)
	t.OwnerID = uuid.UUID(oid.Bytes)
	if distance.Valid {
		t.DistanceKm = distance.Float64
	}

	return t, nil
}
