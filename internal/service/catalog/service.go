package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	cacheinfra "github.com/m04kA/SMC-BookingWizard/internal/infra/cache"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
)

const (
	// ModelsCacheKey ключ листинга моделей в кэше
	ModelsCacheKey = "catalog:models:v1"

	// DefaultCacheTTL время жизни листинга в кэше
	DefaultCacheTTL = time.Minute
)

// Service сервис публичного каталога моделей
type Service struct {
	repo     CatalogRepository
	cache    Cache
	cacheTTL time.Duration
	logger   Logger
}

// NewService создает сервис каталога. cache может быть nil.
func NewService(repo CatalogRepository, cache Cache, cacheTTL time.Duration, logger Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ListModels возвращает активные модели с активными услугами.
// Ошибки кэша не прерывают запрос.
func (s *Service) ListModels(ctx context.Context) ([]domain.BookableModel, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	models, err := s.repo.ListActiveModels(ctx)
	if err != nil {
		s.logger.Error("ListModels: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListModels - repository error: %v", ErrInternal, err)
	}

	s.toCache(ctx, models)

	s.logger.Info("ListModels: fetched %d models", len(models))
	return models, nil
}

// ResolveSlug возвращает ID активной модели по slug
func (s *Service) ResolveSlug(ctx context.Context, slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}

	modelID, err := s.repo.GetModelIDBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrModelNotFound) {
			s.logger.Warn("ResolveSlug: slug=%q not found", slug)
			return "", ErrModelNotFound
		}
		s.logger.Error("ResolveSlug: repository error for slug=%q: %v", slug, err)
		return "", fmt.Errorf("%w: ResolveSlug - repository error: %v", ErrInternal, err)
	}

	return modelID, nil
}

func (s *Service) fromCache(ctx context.Context) ([]domain.BookableModel, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, ModelsCacheKey)
	if err != nil {
		if !errors.Is(err, cacheinfra.ErrCacheMiss) {
			s.logger.Warn("ListModels: cache read failed: %v", err)
		}
		return nil, false
	}

	var models []domain.BookableModel
	if err := json.Unmarshal(data, &models); err != nil {
		s.logger.Warn("ListModels: broken cache entry: %v", err)
		return nil, false
	}
	return models, true
}

func (s *Service) toCache(ctx context.Context, models []domain.BookableModel) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(models)
	if err != nil {
		s.logger.Warn("ListModels: encode cache entry: %v", err)
		return
	}
	if err := s.cache.Set(ctx, ModelsCacheKey, data, s.cacheTTL); err != nil {
		s.logger.Warn("ListModels: cache write failed: %v", err)
	}
}
