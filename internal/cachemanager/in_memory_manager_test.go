package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

type pathEntry struct {
	Path  string
	Title string
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, pathEntry]("search-cache", DefaultExpiration, DefaultCleanupInterval)
	entry := pathEntry{
		Path:  "app.views.maps",
		Title: "Maps",
	}
	cache.Set(context.Background(), "q:maps", entry, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "q:maps")
	require.True(t, ok)
	require.Equal(t, entry, got)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "q:maps", "app.views.maps", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "q:maps")
	require.True(t, ok)
	require.Equal(t, "app.views.maps", got)
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "q:maps")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("q:maps", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "q:maps")
	require.False(t, ok)
	require.Empty(t, got)
}

// A derived key type must satisfy the CacheManager interface directly.
type queryKey string

func TestInMemoryCacheManager_DerivedKeyType(t *testing.T) {
	var cache CacheManager[queryKey, []string] = NewInMemoryCacheManager[queryKey, []string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(context.Background(), queryKey("maps"), []string{"app.views.maps"}, DefaultExpiration)

	got, ok := cache.Get(context.Background(), queryKey("maps"))
	require.True(t, ok)
	require.Equal(t, []string{"app.views.maps"}, got)
}

func TestInMemoryCacheManager_GetMultipleWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetMultipleCacheHit(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("q:maps", "app.views.maps", DefaultExpiration)
	cache.cache.Set("q:nav", "app.views.navigation", DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"q:maps", "q:nav", "q:missing"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"q:maps": "app.views.maps", "q:nav": "app.views.navigation"}, got)
}

func TestInMemoryCacheManager_GetMultipleCacheMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{"q:maps", "q:nav"})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetMultipleWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("q:maps", "app.views.maps", DefaultExpiration)
	cache.cache.Set("q:nav", 123, DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"q:maps", "q:nav"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"q:maps": "app.views.maps"}, got)
}

func TestInMemoryCacheManager_GetWithRefresh_WithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetWithRefresh(context.Background(), "q:maps", time.Minute*60)
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestInMemoryCacheManager_GetWithRefresh_WithExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "q:maps", "app.views.maps", DefaultExpiration)

	got, ok := cache.GetWithRefresh(context.Background(), "q:maps", time.Minute*60)
	require.True(t, ok)
	require.Equal(t, "app.views.maps", got)
}

func TestInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)

	err := cache.Delete(context.Background())
	require.NoError(t, err)
}

func TestInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "q:maps", "app.views.maps", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "q:maps")
	require.True(t, ok)
	require.Equal(t, "app.views.maps", got)

	err := cache.Delete(context.Background(), "q:maps")
	require.NoError(t, err)

	got, ok = cache.Get(context.Background(), "q:maps")
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "q:maps", "app.views.maps", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "q:maps")
	require.True(t, ok)
	require.Equal(t, "app.views.maps", got)

	err := cache.Flush(context.Background())
	require.NoError(t, err)

	got, ok = cache.Get(context.Background(), "q:maps")
	require.False(t, ok)
	require.Equal(t, "", got)
}
