package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

type countingSource struct {
	service *domain.Service
	err     error
	calls   int
}

func (s *countingSource) GetServiceWithPhases(_ context.Context, _ int64) (*domain.Service, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.service, nil
}

func cachedService() *domain.Service {
	return &domain.Service{
		ID:       1,
		Name:     "Consultation",
		IsActive: true,
		Phases: []*domain.ServicePhase{
			{ID: 11, ServiceID: 1, PhaseOrder: 1, DurationMinutes: 30, ProfessionalFraction: 1.0},
		},
	}
}

func newTestCache(t *testing.T, source ServiceSource) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCatalogCache(source, client, time.Minute, nopLogger{}), mr
}

func TestGetServiceWithPhases_MissThenHit(t *testing.T) {
	source := &countingSource{service: cachedService()}
	cache, mr := newTestCache(t, source)

	// Первое чтение идет в источник и наполняет кеш
	got, err := cache.GetServiceWithPhases(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", got.Name)
	assert.Equal(t, 1, source.calls)
	assert.True(t, mr.Exists("catalog:service:1"))

	// Второе чтение обслуживается кешем
	got, err = cache.GetServiceWithPhases(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", got.Name)
	require.Len(t, got.Phases, 1)
	assert.Equal(t, 30, got.Phases[0].DurationMinutes)
	assert.Equal(t, 1, source.calls)
}

func TestGetServiceWithPhases_CorruptedEntryFallsThrough(t *testing.T) {
	source := &countingSource{service: cachedService()}
	cache, mr := newTestCache(t, source)

	require.NoError(t, mr.Set("catalog:service:1", "{not json"))

	got, err := cache.GetServiceWithPhases(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", got.Name)
	assert.Equal(t, 1, source.calls)

	// Битое значение перезаписано валидным
	payload, err := mr.Get("catalog:service:1")
	require.NoError(t, err)
	var stored domain.Service
	require.NoError(t, json.Unmarshal([]byte(payload), &stored))
	assert.Equal(t, int64(1), stored.ID)
}

func TestGetServiceWithPhases_RedisDownDegradesToSource(t *testing.T) {
	source := &countingSource{service: cachedService()}
	cache, mr := newTestCache(t, source)

	mr.Close()

	got, err := cache.GetServiceWithPhases(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", got.Name)
	assert.Equal(t, 1, source.calls)
}

func TestGetServiceWithPhases_SourceErrorNotCached(t *testing.T) {
	source := &countingSource{err: assert.AnError}
	cache, mr := newTestCache(t, source)

	_, err := cache.GetServiceWithPhases(context.Background(), 1)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, mr.Exists("catalog:service:1"))
}

func TestInvalidate(t *testing.T) {
	source := &countingSource{service: cachedService()}
	cache, mr := newTestCache(t, source)

	_, err := cache.GetServiceWithPhases(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, mr.Exists("catalog:service:1"))

	require.NoError(t, cache.Invalidate(context.Background(), 1))
	assert.False(t, mr.Exists("catalog:service:1"))

	// Следующее чтение снова идет в источник
	_, err = cache.GetServiceWithPhases(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
