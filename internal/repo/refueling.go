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

// RefuelingRepo defines the persistence operations for Refuelings.
// Refuelings are append-only: there is no update or delete.
type RefuelingRepo interface {
	// Create inserts a new refueling and returns the persisted record.
	Create(ctx context.Context, ref domain.Refueling) (domain.Refueling, error)

	// ListByVehicle returns every refueling recorded for a vehicle, ordered
	// by date ascending. The usage ledger aggregates over this.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Refueling, error)
}

// pgRefuelingRepo is the Postgres implementation of RefuelingRepo.
type pgRefuelingRepo struct {
	db db
}

// NewRefuelingRepo constructs a RefuelingRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewRefuelingRepo(db db) RefuelingRepo {
	return &pgRefuelingRepo{db: db}
}

// Create inserts a new refueling row and returns the full persisted record.
func (r *pgRefuelingRepo) Create(ctx context.Context, ref domain.Refueling) (domain.Refueling, error) {
	const q = `
		INSERT INTO refuelings (vehicle_id, owner_id, date, volume_liters, unit_price, total_price)
		VALUES (@vehicle_id, @owner_id, @date, @volume_liters, @unit_price, @total_price)
		RETURNING id, vehicle_id, owner_id, date, volume_liters, unit_price, total_price, created_at`

	args := pgx.NamedArgs{
		"vehicle_id":    ref.VehicleID,
		"owner_id":      ref.OwnerID,
		"date":          ref.Date,
		"volume_liters": ref.VolumeLiters,
		"unit_price":    ref.UnitPrice,
		"total_price":   ref.TotalPrice,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRefueling(row)
	if err != nil {
		return domain.Refueling{}, fmt.Errorf("repo.RefuelingRepo.Create: %w", err)
	}
	return result, nil
}

// ListByVehicle returns every refueling for a vehicle ordered by date.
func (r *pgRefuelingRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Refueling, error) {
	const q = `
		SELECT id, vehicle_id, owner_id, date, volume_liters, unit_price, total_price, created_at
		FROM refuelings
		WHERE vehicle_id = @vehicle_id
		ORDER BY date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.RefuelingRepo.ListByVehicle: %w", err)
	}
	defer rows.Close()

	var refs []domain.Refueling
	for rows.Next() {
		ref, err := scanRefueling(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RefuelingRepo.ListByVehicle: scan: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RefuelingRepo.ListByVehicle: rows: %w", err)
	}

	return refs, nil
}

// scanRefueling maps a single database row into a domain.Refueling.
func scanRefueling(s scanner) (domain.Refueling, error) {
	var (
		ref     domain.Refueling
		id, vid pgtype.UUID
		oid     pgtype.UUID
		date    pgtype.Date
	)

	err := s.Scan(&id, &vid, &oid, &date, &ref.VolumeLiters, &ref.UnitPrice,
		&ref.TotalPrice, &ref.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Refueling{}, domain.ErrNotFound
		}
		return domain.Refueling{}, err
	}

	ref.ID = uuid.UUID(id.Bytes)
	ref.VehicleID = uuid.UUID(vid.Bytes)
	ref.OwnerID = uuid.UUID(oid.Bytes)
	ref.Date = date.Time

	return ref, nil
}
