package offline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "treecare-system/pkg/errors"
)

// memoryRepo — замена Redis для тестов кеша ресурсов.
type memoryRepo struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{data: make(map[string]string)}
}

func (m *memoryRepo) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", apperrors.ErrCacheMiss
	}
	return val, nil
}

func (m *memoryRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryRepo) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// Keys поддерживает только шаблоны вида "prefix*" — этого достаточно
// для запросов, которые делает кеш ресурсов.
func (m *memoryRepo) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func newTestProxy(origin string, repo *memoryRepo, version string) *Proxy {
	return NewProxy(origin, version, NewRedisAssetCache(repo), zap.NewNop())
}

// assetRequest собирает echo-контекст так, как его собрал бы роут /assets/*.
func assetRequest(method, assetPath string, body *strings.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, "/assets"+assetPath, body)
	} else {
		req = httptest.NewRequest(method, "/assets"+assetPath, nil)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetPath("/assets/*")
	ctx.SetParamNames("*")
	ctx.SetParamValues(strings.TrimPrefix(assetPath, "/"))
	return ctx, rec
}

// deadOrigin возвращает адрес, по которому гарантированно никто не слушает.
func deadOrigin(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

func TestHandle_NetworkFirstAndCacheWrite(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("ETag", `"abc123"`)
		fmt.Fprint(w, "console.log('app');")
	}))
	defer origin.Close()

	repo := newMemoryRepo()
	proxy := newTestProxy(origin.URL, repo, "v4")

	ctx, rec := assetRequest(http.MethodGet, "/js/app.js", nil)
	require.NoError(t, proxy.Handle(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log('app');", rec.Body.String())
	assert.Equal(t, "application/javascript", rec.Header().Get("Content-Type"))

	// Успешный сетевой ответ обязан осесть в кеше текущей версии.
	cached, err := proxy.cache.Get(context.Background(), "v4", "/js/app.js")
	require.NoError(t, err, "ответ должен быть закеширован")
	assert.Equal(t, []byte("console.log('app');"), cached.Body)
	assert.Equal(t, `"abc123"`, cached.Header["ETag"])
}

func TestHandle_OfflineServesFromCache(t *testing.T) {
	repo := newMemoryRepo()
	proxy := newTestProxy(deadOrigin(t), repo, "v4")

	require.NoError(t, proxy.cache.Put(context.Background(), "v4", "/css/style.css", CachedResponse{
		Status: http.StatusOK,
		Header: map[string]string{"Content-Type": "text/css"},
		Body:   []byte("body{margin:0}"),
	}))

	ctx, rec := assetRequest(http.MethodGet, "/css/style.css", nil)
	require.NoError(t, proxy.Handle(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{margin:0}", rec.Body.String())
	assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))
}

func TestHandle_OriginErrorStatusFallsBackToCache(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer origin.Close()

	repo := newMemoryRepo()
	proxy := newTestProxy(origin.URL, repo, "v4")

	require.NoError(t, proxy.cache.Put(context.Background(), "v4", "/index.html", CachedResponse{
		Status: http.StatusOK,
		Header: map[string]string{"Content-Type": "text/html"},
		Body:   []byte("<html></html>"),
	}))

	ctx, rec := assetRequest(http.MethodGet, "/index.html", nil)
	require.NoError(t, proxy.Handle(ctx))

	// Не-200 от ориджина равносилен отказу сети: отдаём кеш, а не ошибку.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html></html>", rec.Body.String())
}

func TestHandle_DoubleMissReturns503Offline(t *testing.T) {
	repo := newMemoryRepo()
	proxy := newTestProxy(deadOrigin(t), repo, "v4")

	ctx, rec := assetRequest(http.MethodGet, "/js/missing.js", nil)
	require.NoError(t, proxy.Handle(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Offline", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestHandle_NonGETBypassesCache(t *testing.T) {
	var gotMethod string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer origin.Close()

	repo := newMemoryRepo()
	proxy := newTestProxy(origin.URL, repo, "v4")

	ctx, rec := assetRequest(http.MethodPost, "/api/upload", strings.NewReader("payload"))
	require.NoError(t, proxy.Handle(ctx))

	assert.Equal(t, http.MethodPost, gotMethod, "не-GET уходит на ориджин насквозь")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.data, "сквозные запросы не должны попадать в кеш")
}

func TestInstall_CachesAllShellAssets(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "содержимое %s", r.URL.Path)
	}))
	defer origin.Close()

	repo := newMemoryRepo()
	proxy := newTestProxy(origin.URL, repo, "v4")

	require.NoError(t, proxy.Install(context.Background()))

	for _, path := range ShellAssets {
		cached, err := proxy.cache.Get(context.Background(), "v4", path)
		require.NoErrorf(t, err, "ресурс оболочки %s должен быть закеширован", path)
		assert.Equal(t, http.StatusOK, cached.Status)
	}
}

func TestInstall_AllOrNothing(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/js/router.js" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer origin.Close()

	repo := newMemoryRepo()
	proxy := newTestProxy(origin.URL, repo, "v4")

	err := proxy.Install(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/js/router.js")

	// Частичной установки быть не должно: ни одной записи в кеше.
	assert.Empty(t, repo.data)
}

func TestActivate_DeletesStaleNamespaces(t *testing.T) {
	repo := newMemoryRepo()
	cache := NewRedisAssetCache(repo)
	resp := CachedResponse{Status: http.StatusOK, Body: []byte("x")}

	require.NoError(t, cache.Put(context.Background(), "v2", "/index.html", resp))
	require.NoError(t, cache.Put(context.Background(), "v3", "/index.html", resp))
	require.NoError(t, cache.Put(context.Background(), "v4", "/index.html", resp))

	proxy := NewProxy("http://origin.invalid", "v4", cache, zap.NewNop())
	require.NoError(t, proxy.Activate(context.Background()))

	versions, err := cache.Versions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"v4"}, versions, "после активации живёт только текущий неймспейс")

	_, err = cache.Get(context.Background(), "v2", "/index.html")
	assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
}

func TestAssetCache_GetMiss(t *testing.T) {
	cache := NewRedisAssetCache(newMemoryRepo())
	_, err := cache.Get(context.Background(), "v4", "/nope.js")
	assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
}

func TestAssetCache_MalformedEntryIsMiss(t *testing.T) {
	repo := newMemoryRepo()
	repo.data[assetKey("v4", "/broken.js")] = "{не json"

	cache := NewRedisAssetCache(repo)
	_, err := cache.Get(context.Background(), "v4", "/broken.js")
	assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
}
