package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/backend/internal/db"
)

type Repository interface {
	// Create inserts the listing and all of its image rows in a single
	// transaction so a failure cannot leave an orphaned listing record.
	Create(ctx context.Context, l *Listing) error

	GetByID(ctx context.Context, id string) (*Listing, error)

	// Search applies every SQL-expressible filter. When filter.HasGeo() is
	// true, pagination is left to the caller because the radius constraint is
	// evaluated in the service layer; otherwise limit/offset are applied here
	// and the returned total is the pre-pagination match count.
	Search(ctx context.Context, filter Filter) ([]*Listing, int, error)

	Update(ctx context.Context, l *Listing) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var listingColumns = []string{
	"l.id", "l.owner_id", "u.display_name",
	"l.type", "l.title", "l.description", "l.category", "l.brand", "l.period",
	"l.price_per_hour", "l.price_per_day", "l.price_per_week", "l.price_per_month",
	"l.location", "l.pincode", "l.city", "l.state",
	"l.condition", "l.area", "l.latitude", "l.longitude",
	"l.available", "l.created_at", "l.updated_at",
}

func scanListing(row pgx.Row, extra ...any) (*Listing, error) {
	var l Listing
	dest := []any{
		&l.ID, &l.OwnerID, &l.OwnerName,
		&l.Type, &l.Title, &l.Description, &l.Category, &l.Brand, &l.Period,
		&l.PricePerHour, &l.PricePerDay, &l.PricePerWeek, &l.PricePerMonth,
		&l.Location, &l.Pincode, &l.City, &l.State,
		&l.Condition, &l.Area, &l.Latitude, &l.Longitude,
		&l.Available, &l.CreatedAt, &l.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *pgxRepository) Create(ctx context.Context, l *Listing) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Insert("public.listings").
			Columns(
				"owner_id", "type", "title", "description", "category", "brand", "period",
				"price_per_hour", "price_per_day", "price_per_week", "price_per_month",
				"location", "pincode", "city", "state",
				"condition", "area", "latitude", "longitude", "available",
			).
			Values(
				l.OwnerID, l.Type, l.Title, l.Description, l.Category, l.Brand, l.Period,
				l.PricePerHour, l.PricePerDay, l.PricePerWeek, l.PricePerMonth,
				l.Location, l.Pincode, l.City, l.State,
				l.Condition, l.Area, l.Latitude, l.Longitude, l.Available,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create listing query failed: %w", err)
		}

		if err := tx.QueryRow(ctx, query, args...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return fmt.Errorf("create listing failed: %w", err)
		}

		for i := range l.Images {
			img := &l.Images[i]
			img.ListingID = l.ID
			query, args, err := psql.Insert("public.listing_images").
				Columns(
					"id", "listing_id", "filename", "storage_path", "thumbnail_path",
					"content_type", "size", "position",
				).
				Values(
					img.ID, img.ListingID, img.Filename, img.StoragePath, img.ThumbnailPath,
					img.ContentType, img.Size, img.Position,
				).
				Suffix("RETURNING created_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("build create listing image query failed: %w", err)
			}
			if err := tx.QueryRow(ctx, query, args...).Scan(&img.CreatedAt); err != nil {
				return fmt.Errorf("create listing image failed: %w", err)
			}
		}

		return nil
	})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(listingColumns...).
		From("public.listings l").
		Join("public.users u ON l.owner_id = u.id").
		Where(squirrel.Eq{"l.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get listing query failed: %w", err)
	}

	l, err := scanListing(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get listing failed: %w", err)
	}

	if err := r.attachImages(ctx, []*Listing{l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *pgxRepository) Search(ctx context.Context, filter Filter) ([]*Listing, int, error) {
	sql, args, err := buildSearchQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("build search listings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search listings failed: %w", err)
	}
	defer rows.Close()

	var listings []*Listing
	var total int
	for rows.Next() {
		l, err := scanListing(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing failed: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("search listings failed: %w", err)
	}

	if err := r.attachImages(ctx, listings); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// buildSearchQuery translates the filter into SQL. Every field combines as a
// conjunction; the zero filter selects everything.
func buildSearchQuery(filter Filter) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(append([]string{}, listingColumns...), "count(*) OVER() as total_count")
	query := psql.Select(cols...).
		From("public.listings l").
		Join("public.users u ON l.owner_id = u.id")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"l.title": pattern},
			squirrel.ILike{"l.description": pattern},
			squirrel.ILike{"l.category": pattern},
		})
	}
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"l.type": filter.Type})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"l.category": filter.Category})
	}
	if filter.Brand != "" {
		query = query.Where(squirrel.Eq{"l.brand": filter.Brand})
	}
	if filter.Condition != "" {
		query = query.Where(squirrel.Eq{"l.condition": filter.Condition})
	}
	if filter.Location != "" {
		query = query.Where(squirrel.ILike{"l.location": "%" + filter.Location + "%"})
	}
	if filter.Pincode != "" {
		query = query.Where(squirrel.Eq{"l.pincode": filter.Pincode})
	}
	if filter.Available != nil {
		query = query.Where(squirrel.Eq{"l.available": *filter.Available})
	}

	// Inclusive price bounds, one pair per pricing period.
	query = priceBound(query, "l.price_per_hour", filter.PriceMinHour, filter.PriceMaxHour)
	query = priceBound(query, "l.price_per_day", filter.PriceMinDay, filter.PriceMaxDay)
	query = priceBound(query, "l.price_per_week", filter.PriceMinWeek, filter.PriceMaxWeek)
	query = priceBound(query, "l.price_per_month", filter.PriceMinMonth, filter.PriceMaxMonth)

	query = query.OrderBy("l.created_at DESC")

	// The radius constraint is applied by the service after the fact, so
	// pagination has to wait until then as well.
	if !filter.HasGeo() {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	return query.ToSql()
}

func priceBound(query squirrel.SelectBuilder, column string, min, max *float64) squirrel.SelectBuilder {
	if min != nil {
		query = query.Where(squirrel.GtOrEq{column: *min})
	}
	if max != nil {
		query = query.Where(squirrel.LtOrEq{column: *max})
	}
	return query
}

func (r *pgxRepository) Update(ctx context.Context, l *Listing) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.listings").
		Set("type", l.Type).
		Set("title", l.Title).
		Set("description", l.Description).
		Set("category", l.Category).
		Set("brand", l.Brand).
		Set("period", l.Period).
		Set("price_per_hour", l.PricePerHour).
		Set("price_per_day", l.PricePerDay).
		Set("price_per_week", l.PricePerWeek).
		Set("price_per_month", l.PricePerMonth).
		Set("location", l.Location).
		Set("pincode", l.Pincode).
		Set("city", l.City).
		Set("state", l.State).
		Set("condition", l.Condition).
		Set("area", l.Area).
		Set("latitude", l.Latitude).
		Set("longitude", l.Longitude).
		Set("available", l.Available).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": l.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update listing query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update listing failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// attachImages loads image rows for the given listings in one query.
func (r *pgxRepository) attachImages(ctx context.Context, listings []*Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]string, len(listings))
	byID := make(map[string]*Listing, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
		byID[l.ID] = l
	}

	const query = `
		SELECT id, listing_id, filename, storage_path, thumbnail_path, content_type, size, position, created_at
		FROM public.listing_images
		WHERE listing_id = ANY($1)
		ORDER BY listing_id, position
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list listing images failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img Image
		if err := rows.Scan(
			&img.ID, &img.ListingID, &img.Filename, &img.StoragePath, &img.ThumbnailPath,
			&img.ContentType, &img.Size, &img.Position, &img.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan listing image failed: %w", err)
		}
		if l, ok := byID[img.ListingID]; ok {
			l.Images = append(l.Images, img)
		}
	}
	return rows.Err()
}
