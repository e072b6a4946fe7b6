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

// ReservationRepo defines the persistence operations for Reservations.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the scheduler to be unit-tested with a mock.
type ReservationRepo interface {
	// Create inserts a new reservation and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error)

	// GetByID retrieves a single reservation by its UUID primary key.
	// Returns domain.ErrNotFound if no reservation with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Reservation, error)

	// ListByVehicle returns every reservation on a vehicle, ordered by
	// date_start ascending. The scheduler runs its overlap check over this.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Reservation, error)

	// ListByCreatorPaged returns one page of the reservations created by a
	// co-owner, most recent date_start first, plus the total match count.
	ListByCreatorPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Reservation, int64, error)

	// Update overwrites the mutable fields of an existing reservation and
	// returns the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, res domain.Reservation) (domain.Reservation, error)

	// Delete removes a reservation by ID. Returns domain.ErrNotFound if it
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgReservationRepo is the Postgres implementation of ReservationRepo.
type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

const reservationColumns = `id, vehicle_id, owner_id, date_start, date_end,
	time_start, time_end, motive, description, status, created_at, updated_at`

// Create inserts a new reservation row and returns the full persisted record.
func (r *pgReservationRepo) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	const q = `
		INSERT INTO reservations (vehicle_id, owner_id, date_start, date_end,
			time_start, time_end, motive, description, status)
		VALUES (@vehicle_id, @owner_id, @date_start, @date_end,
			@time_start, @time_end, @motive, @description, @status)
		RETURNING ` + reservationColumns

	args := pgx.NamedArgs{
		"vehicle_id":  res.VehicleID,
		"owner_id":    res.OwnerID,
		"date_start":  res.DateStart,
		"date_end":    res.DateEnd,
		"time_start":  int(res.TimeStart),
		"time_end":    int(res.TimeEnd),
		"motive":      res.Motive,
		"description": res.Description,
		"status":      string(res.Status),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanReservation(row)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a reservation by primary key.
func (r *pgReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanReservation(row)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByVehicle returns every reservation on a vehicle ordered by date_start.
func (r *pgReservationRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE vehicle_id = @vehicle_id
		ORDER BY date_start, time_start`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByVehicle: %w", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReservationRepo.ListByVehicle: scan: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByVehicle: rows: %w", err)
	}

	return out, nil
}

// ListByCreatorPaged returns one page of a co-owner's reservations, most
// recent date_start first. The total count comes from a window function so a
// single query serves both the page and the pagination metadata.
func (r *pgReservationRepo) ListByCreatorPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Reservation, int64, error) {
	const q = `
		SELECT ` + reservationColumns + `, count(*) OVER() AS total
		FROM reservations
		WHERE owner_id = @owner_id
		ORDER BY date_start DESC, time_start DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"owner_id": ownerID,
		"limit":    p.Limit,
		"offset":   p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByCreatorPaged: %w", err)
	}
	defer rows.Close()

	var (
		out   []domain.Reservation
		total int64
	)
	for rows.Next() {
		res, n, err := scanReservationWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByCreatorPaged: scan: %w", err)
		}
		out = append(out, res)
		total = n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ReservationRepo.ListByCreatorPaged: rows: %w", err)
	}

	return out, total, nil
}

// Update overwrites the mutable fields of a reservation and returns the
// updated record.
func (r *pgReservationRepo) Update(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	const q = `
		UPDATE reservations
		SET date_start  = @date_start,
		    date_end    = @date_end,
		    time_start  = @time_start,
		    time_end    = @time_end,
		    motive      = @motive,
		    description = @description,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + reservationColumns

	args := pgx.NamedArgs{
		"id":          res.ID,
		"date_start":  res.DateStart,
		"date_end":    res.DateEnd,
		"time_start":  int(res.TimeStart),
		"time_end":    int(res.TimeEnd),
		"motive":      res.Motive,
		"description": res.Description,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanReservation(row)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a reservation by primary key.
func (r *pgReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM reservations WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ReservationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReservationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanReservation maps a single database row into a domain.Reservation.
// It handles the UUID, date, and minutes-since-midnight conversions.
func scanReservation(s scanner) (domain.Reservation, error) {
	var (
		res     domain.Reservation
		id, vid pgtype.UUID
		oid     pgtype.UUID
		dStart  pgtype.Date
		dEnd    pgtype.Date
		tStart  int
		tEnd    int
		status  string
	)

	err := s.Scan(&id, &vid, &oid, &dStart, &dEnd, &tStart, &tEnd,
		&res.Motive, &res.Description, &status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}

	res.ID = uuid.UUID(id.Bytes)
	res.VehicleID = uuid.UUID(vid.Bytes)
	res.OwnerID = uuid.UUID(oid.Bytes)
	res.DateStart = dStart.Time
	res.DateEnd = dEnd.Time
	res.TimeStart = domain.TimeOfDay(tStart)
	res.TimeEnd = domain.TimeOfDay(tEnd)
	res.Status = domain.ReservationStatus(status)

	return res, nil
}

// scanReservationWithTotal is scanReservation plus the trailing count(*)
// OVER() column used by the paged listing.
func scanReservationWithTotal(s scanner) (domain.Reservation, int64, error) {
	var (
		res     domain.Reservation
		id, vid pgtype.UUID
		oid     pgtype.UUID
		dStart  pgtype.Date
		dEnd    pgtype.Date
		tStart  int
		tEnd    int
		status  string
		total   int64
	)

	err := s.Scan(&id, &vid, &oid, &dStart, &dEnd, &tStart, &tEnd,
		&res.Motive, &res.Description, &status, &res.CreatedAt, &res.UpdatedAt, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reservation{}, 0, domain.ErrNotFound
		}
		return domain.Reservation{}, 0, err
	}

	res.ID = uuid.UUID(id.Bytes)
	res.VehicleID = uuid.UUID(vid.Bytes)
	res.OwnerID = uuid.UUID(oid.Bytes)
	res.DateStart = dStart.Time
	res.DateEnd = dEnd.Time
	res.TimeStart = domain.TimeOfDay(tStart)
	res.TimeEnd = domain.TimeOfDay(tEnd)
	res.Status = domain.ReservationStatus(status)

	return res, total, nil
}
