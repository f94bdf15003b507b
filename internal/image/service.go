package image

import (
	"context"
	"fmt"
	"io"

	"github.com/farmconnect/backend/internal/pkg/storage"
)

type Service interface {
	Get(ctx context.Context, id string) (*Image, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error)
}

type service struct {
	repo  Repository
	store storage.Storage
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:  repo,
		store: store,
	}
}

func (s *service) Get(ctx context.Context, id string) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.store.Get(ctx, img.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve image from storage: %w", err)
	}
	return stream, img, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if img.ThumbnailPath == nil {
		return nil, nil, ErrNotFound
	}

	stream, err := s.store.Get(ctx, *img.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}
	return stream, img, nil
}
