package service

import (
	"context"

	"arcapi/internal/apperr"
	"arcapi/internal/model"
	"arcapi/internal/repository"
)

// ConfigService defines the use cases for the key-value config table.
type ConfigService interface {
	List(ctx context.Context) ([]model.ConfigEntry, error)
	Get(ctx context.Context, key string) (*model.ConfigEntry, error)
	Set(ctx context.Context, key, value string) (*model.ConfigEntry, error)
}

type configService struct {
	repo repository.ConfigRepository
}

// NewConfigService constructs a new ConfigService.
func NewConfigService(repo repository.ConfigRepository) ConfigService {
	return &configService{repo: repo}
}

func (s *configService) List(ctx context.Context) ([]model.ConfigEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return entries, nil
}

func (s *configService) Get(ctx context.Context, key string) (*model.ConfigEntry, error) {
	if key == "" {
		return nil, apperr.Validation("key", "must not be empty")
	}
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, mapErr(err, "config entry", key)
	}
	return entry, nil
}

func (s *configService) Set(ctx context.Context, key, value string) (*model.ConfigEntry, error) {
	if key == "" {
		return nil, apperr.Validation("key", "must not be empty")
	}
	entry, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return entry, nil
}
