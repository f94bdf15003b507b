package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Image, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Image, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "listing_id", "filename", "storage_path", "thumbnail_path",
		"content_type", "size", "position", "created_at",
	).
		From("public.listing_images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get image query failed: %w", err)
	}

	var img Image
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&img.ID, &img.ListingID, &img.Filename, &img.StoragePath, &img.ThumbnailPath,
		&img.ContentType, &img.Size, &img.Position, &img.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get image failed: %w", err)
	}
	return &img, nil
}
