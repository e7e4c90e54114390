// Файл: internal/offline/asset_cache.go
package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"treecare-system/internal/repositories"
	apperrors "treecare-system/pkg/errors"
)

// Ключи ресурсов: assets:<версия>:<путь>. Версия — неймспейс кеша;
// живым может быть только один неймспейс (см. Activate в proxy.go).
const assetKeyPrefix = "assets:"

// CachedResponse — сохранённый ответ ориджина: статус, заголовки и тело.
// Отдаётся из кеша как есть, без повторной валидации.
type CachedResponse struct {
	Status int               `json:"status"`
	Header map[string]string `json:"header"`
	Body   []byte            `json:"body"`
}

type AssetCacheInterface interface {
	Put(ctx context.Context, version, path string, resp CachedResponse) error

	// Get возвращает apperrors.ErrCacheMiss, если ресурс не кеширован.
	Get(ctx context.Context, version, path string) (*CachedResponse, error)

	// DeleteNamespace удаляет неймспейс версии целиком, возвращает число
	// удалённых записей.
	DeleteNamespace(ctx context.Context, version string) (int, error)

	// Versions перечисляет существующие неймспейсы.
	Versions(ctx context.Context) ([]string, error)
}

// RedisAssetCache хранит ресурсы в том же Redis, что и снапшот данных.
type RedisAssetCache struct {
	cache repositories.CacheRepositoryInterface
}

func NewRedisAssetCache(cache repositories.CacheRepositoryInterface) AssetCacheInterface {
	return &RedisAssetCache{cache: cache}
}

func assetKey(version, path string) string {
	return assetKeyPrefix + version + ":" + path
}

func (c *RedisAssetCache) Put(ctx context.Context, version, path string, resp CachedResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("ошибка сериализации кешированного ответа: %w", err)
	}
	return c.cache.Set(ctx, assetKey(version, path), string(body), 0)
}

func (c *RedisAssetCache) Get(ctx context.Context, version, path string) (*CachedResponse, error) {
	raw, err := c.cache.Get(ctx, assetKey(version, path))
	if err != nil {
		return nil, err
	}

	var resp CachedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		// Нечитаемая запись равносильна промаху.
		return nil, apperrors.ErrCacheMiss
	}
	return &resp, nil
}

func (c *RedisAssetCache) DeleteNamespace(ctx context.Context, version string) (int, error) {
	keys, err := c.cache.Keys(ctx, assetKeyPrefix+version+":*")
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := c.cache.Del(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (c *RedisAssetCache) Versions(ctx context.Context) ([]string, error) {
	keys, err := c.cache.Keys(ctx, assetKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var versions []string
	for _, key := range keys {
		rest := strings.TrimPrefix(key, assetKeyPrefix)
		version, _, ok := strings.Cut(rest, ":")
		if !ok || seen[version] {
			continue
		}
		seen[version] = true
		versions = append(versions, version)
	}
	return versions, nil
}
