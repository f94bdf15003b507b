package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/backend/internal/db"
)

// activeStatuses are the non-terminal statuses that block overlapping bookings.
var activeStatuses = []string{
	string(StatusPending), string(StatusConfirmed), string(StatusActive),
}

type Repository interface {
	// Create inserts the booking after re-checking availability and overlap
	// under a row lock on the listing, all in one transaction, so two
	// concurrent requests for the same dates cannot both succeed.
	Create(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// UpdateStatus persists the transition only when the stored status still
	// equals expected. ErrStatusChanged reports a lost race.
	UpdateStatus(ctx context.Context, id string, expected, next Status) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Lock the listing row so the overlap check and the insert form one
		// serialized unit per listing.
		var available bool
		err := tx.QueryRow(ctx,
			`SELECT available FROM public.listings WHERE id = $1 FOR UPDATE`,
			b.ListingID,
		).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrListingNotFound
			}
			return fmt.Errorf("lock listing failed: %w", err)
		}
		if !available {
			return ErrListingUnavailable
		}

		var overlaps bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (
				SELECT 1 FROM public.bookings
				WHERE listing_id = $1
				  AND status = ANY($2)
				  AND start_date < $4
				  AND end_date > $3
			)`,
			b.ListingID, activeStatuses, b.StartDate, b.EndDate,
		).Scan(&overlaps)
		if err != nil {
			return fmt.Errorf("check booking overlap failed: %w", err)
		}
		if overlaps {
			return ErrTimeConflict
		}

		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Insert("public.bookings").
			Columns("listing_id", "renter_id", "start_date", "end_date", "status").
			Values(b.ListingID, b.RenterID, b.StartDate, b.EndDate, b.Status).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}

		if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return mapBookingInsertError(err)
		}
		return nil
	})
}

// mapBookingInsertError translates constraint violations on the bookings
// insert. Only the listing foreign key maps to a domain error; a renter FK
// failure would mean an authenticated user row vanished, which is not a
// condition the client can act on.
func mapBookingInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.ForeignKeyViolation &&
		strings.Contains(pgErr.ConstraintName, "listing") {
		return ErrListingNotFound
	}
	return fmt.Errorf("create booking failed: %w", err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"b.id", "b.listing_id", "l.title", "l.owner_id", "b.renter_id", "u.display_name",
		"b.start_date", "b.end_date", "b.status", "b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.listings l ON b.listing_id = l.id").
		Join("public.users u ON b.renter_id = u.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.ListingID, &b.ListingTitle, &b.ListingOwnerID, &b.RenterID, &b.RenterName,
		&b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	sql, args, err := buildListQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ListingID, &b.ListingTitle, &b.ListingOwnerID, &b.RenterID, &b.RenterName,
			&b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, total, rows.Err()
}

// buildListQuery translates the filter into SQL, scoping visibility to the
// caller's own bookings and bookings against the caller's listings.
func buildListQuery(filter Filter) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.listing_id", "l.title", "l.owner_id", "b.renter_id", "u.display_name",
		"b.start_date", "b.end_date", "b.status", "b.created_at", "b.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.bookings b").
		Join("public.listings l ON b.listing_id = l.id").
		Join("public.users u ON b.renter_id = u.id").
		// Visibility: the caller sees bookings they made and bookings made
		// against their own listings.
		Where(squirrel.Or{
			squirrel.Eq{"b.renter_id": filter.CallerID},
			squirrel.Eq{"l.owner_id": filter.CallerID},
		})

	if filter.ListingID != "" {
		query = query.Where(squirrel.Eq{"b.listing_id": filter.ListingID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"b.end_date": filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"b.start_date": filter.To})
	}

	return query.OrderBy("b.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, expected, next Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", next).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": expected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the booking is gone or its status moved underneath us.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusChanged
	}
	return nil
}
