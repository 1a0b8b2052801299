package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// ServiceSource источник справочных данных об услугах (репозиторий каталога)
type ServiceSource interface {
	GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// CatalogCache read-through кеш услуг поверх репозитория каталога
//
// Каталог меняется редко, а планировщик и поиск слотов читают услугу на каждый
// кандидатный слот. Ошибки кеша деградируют в прямое чтение из источника.
type CatalogCache struct {
	source ServiceSource
	client *redis.Client
	ttl    time.Duration
	log    Logger
}

// NewCatalogCache создает кеш каталога с указанным TTL
func NewCatalogCache(source ServiceSource, client *redis.Client, ttl time.Duration, log Logger) *CatalogCache {
	return &CatalogCache{
		source: source,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func serviceKey(serviceID int64) string {
	return fmt.Sprintf("catalog:service:%d", serviceID)
}

// GetServiceWithPhases получает услугу из кеша или из источника с записью в кеш
func (c *CatalogCache) GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error) {
	key := serviceKey(serviceID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var service domain.Service
		if unmarshalErr := json.Unmarshal(payload, &service); unmarshalErr == nil {
			return &service, nil
		}
		// Битое значение в кеше - читаем из источника и перезаписываем
		c.log.Warn("CatalogCache: corrupted cache entry for service id=%d, falling through", serviceID)
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("CatalogCache: redis get failed for service id=%d: %v", serviceID, err)
	}

	service, err := c.source.GetServiceWithPhases(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(service); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("CatalogCache: redis set failed for service id=%d: %v", serviceID, setErr)
		}
	}

	return service, nil
}

// CatalogSource полный интерфейс репозитория каталога
type CatalogSource interface {
	GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error)
	ListActiveProfessionals(ctx context.Context) ([]*domain.Professional, error)
	ListActiveResourcesByType(ctx context.Context, resourceType string) ([]*domain.PhysicalResource, error)
	ClinicHours(ctx context.Context) ([]domain.DutyWindow, error)
}

// Catalog каталог с кешированием услуг: чтение услуг идет через кеш,
// остальные методы делегируются репозиторию как есть
type Catalog struct {
	CatalogSource
	cache *CatalogCache
}

// NewCatalog оборачивает репозиторий каталога кешем услуг
func NewCatalog(source CatalogSource, client *redis.Client, ttl time.Duration, log Logger) *Catalog {
	return &Catalog{
		CatalogSource: source,
		cache:         NewCatalogCache(source, client, ttl, log),
	}
}

// GetServiceWithPhases читает услугу через кеш
func (c *Catalog) GetServiceWithPhases(ctx context.Context, serviceID int64) (*domain.Service, error) {
	return c.cache.GetServiceWithPhases(ctx, serviceID)
}

// Invalidate удаляет услугу из кеша
func (c *Catalog) Invalidate(ctx context.Context, serviceID int64) error {
	return c.cache.Invalidate(ctx, serviceID)
}

// Invalidate удаляет услугу из кеша (вызывается при изменении каталога)
func (c *CatalogCache) Invalidate(ctx context.Context, serviceID int64) error {
	if err := c.client.Del(ctx, serviceKey(serviceID)).Err(); err != nil {
		return fmt.Errorf("cache: failed to invalidate service id=%d: %w", serviceID, err)
	}
	return nil
}
