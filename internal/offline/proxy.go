// Файл: internal/offline/proxy.go
package offline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"treecare-system/pkg/metrics"
)

// ShellAssets — перечень ресурсов оболочки приложения, которые обязаны
// пережить установку: входной документ, стили, скрипты. Всё остальное
// кешируется оппортунистически после первого успешного запроса.
var ShellAssets = []string{
	"/",
	"/index.html",
	"/css/style.css",
	"/css/mobile.css",
	"/js/app.js",
	"/js/router.js",
	"/js/data.js",
	"/manifest.json",
}

// Заголовки ориджина, которые сохраняются вместе с телом.
var storedHeaders = []string{"Content-Type", "Cache-Control", "ETag", "Last-Modified"}

// Proxy — офлайн-прокси статических ресурсов: network-first, при недоступной
// сети отдаёт из устойчивого кеша, при одновременном промахе — 503 "Offline".
type Proxy struct {
	origin     string
	version    string
	cache      AssetCacheInterface
	httpClient *http.Client
	logger     *zap.Logger
}

func NewProxy(origin, version string, cache AssetCacheInterface, logger *zap.Logger) *Proxy {
	return &Proxy{
		origin:     strings.TrimRight(origin, "/"),
		version:    version,
		cache:      cache,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.Named("offline_proxy"),
	}
}

// Install наполняет неймспейс текущей версии ресурсами оболочки.
// Всё-или-ничего: сначала скачиваются все ресурсы, записи в кеш идут
// только после того, как каждый из них ответил 200.
func (p *Proxy) Install(ctx context.Context) error {
	staged := make(map[string]CachedResponse, len(ShellAssets))

	for _, path := range ShellAssets {
		resp, err := p.fetchOrigin(ctx, path)
		if err != nil {
			return fmt.Errorf("установка прервана, ресурс %s не скачался: %w", path, err)
		}
		if resp.Status != http.StatusOK {
			return fmt.Errorf("установка прервана, ресурс %s ответил статусом %d", path, resp.Status)
		}
		staged[path] = *resp
	}

	for path, resp := range staged {
		if err := p.cache.Put(ctx, p.version, path, resp); err != nil {
			return fmt.Errorf("установка прервана, запись %s в кеш не удалась: %w", path, err)
		}
	}

	p.logger.Info("Оболочка приложения закеширована",
		zap.String("version", p.version),
		zap.Int("assets", len(staged)),
	)
	return nil
}

// Activate удаляет все неймспейсы, кроме текущего. После активации жив
// ровно один неймспейс — рост кеша между деплоями ограничен.
func (p *Proxy) Activate(ctx context.Context) error {
	versions, err := p.cache.Versions(ctx)
	if err != nil {
		return fmt.Errorf("не удалось перечислить неймспейсы кеша: %w", err)
	}

	for _, version := range versions {
		if version == p.version {
			continue
		}
		deleted, err := p.cache.DeleteNamespace(ctx, version)
		if err != nil {
			return fmt.Errorf("не удалось удалить неймспейс %s: %w", version, err)
		}
		p.logger.Info("Удалён устаревший неймспейс кеша ресурсов",
			zap.String("version", version),
			zap.Int("deleted", deleted),
		)
	}
	return nil
}

// Handle обслуживает один запрос ресурса. Машина состояний:
// Fetching -> NetworkSucceeded (200: кешируем и отдаём сеть) |
// NetworkFailed (ошибка/не-200: пробуем кеш, иначе синтетический 503).
func (p *Proxy) Handle(ctx echo.Context) error {
	path := "/" + ctx.Param("*")

	// Перехватываются только GET; остальное проходит к ориджину насквозь.
	if ctx.Request().Method != http.MethodGet {
		metrics.ProxyRequests.WithLabelValues("bypass").Inc()
		return p.passThrough(ctx, path)
	}

	reqCtx := ctx.Request().Context()

	resp, err := p.fetchOrigin(reqCtx, path)
	if err == nil && resp.Status == http.StatusOK {
		// Network-first: свежий ответ перезаписывает кеш и уходит клиенту.
		if putErr := p.cache.Put(reqCtx, p.version, path, *resp); putErr != nil {
			p.logger.Warn("Не удалось обновить кеш ресурса", zap.String("path", path), zap.Error(putErr))
		}
		metrics.ProxyRequests.WithLabelValues("network").Inc()
		return respondCached(ctx, resp)
	}
	if err != nil {
		p.logger.Debug("Сеть недоступна, попытка отдать из кеша", zap.String("path", path), zap.Error(err))
	}

	cached, cacheErr := p.cache.Get(reqCtx, p.version, path)
	if cacheErr == nil {
		metrics.ProxyRequests.WithLabelValues("cache").Inc()
		return respondCached(ctx, cached)
	}

	// Единственный видимый пользователю сигнал отказа во всей системе.
	metrics.ProxyRequests.WithLabelValues("offline").Inc()
	return ctx.Blob(http.StatusServiceUnavailable, "text/plain; charset=utf-8", []byte("Offline"))
}

// fetchOrigin скачивает ресурс с ориджина и сворачивает ответ в CachedResponse.
func (p *Proxy) fetchOrigin(ctx context.Context, path string) (*CachedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.origin+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	header := make(map[string]string, len(storedHeaders))
	for _, name := range storedHeaders {
		if value := resp.Header.Get(name); value != "" {
			header[name] = value
		}
	}

	return &CachedResponse{
		Status: resp.StatusCode,
		Header: header,
		Body:   body,
	}, nil
}

// passThrough пробрасывает не-GET запрос к ориджину без участия кеша.
func (p *Proxy) passThrough(ctx echo.Context, path string) error {
	req, err := http.NewRequestWithContext(
		ctx.Request().Context(),
		ctx.Request().Method,
		p.origin+path,
		ctx.Request().Body,
	)
	if err != nil {
		return err
	}
	req.Header = ctx.Request().Header.Clone()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Ориджин недоступен")
	}
	defer resp.Body.Close()

	for name, values := range resp.Header {
		for _, value := range values {
			ctx.Response().Header().Add(name, value)
		}
	}
	ctx.Response().WriteHeader(resp.StatusCode)
	_, err = io.Copy(ctx.Response().Writer, resp.Body)
	return err
}

func respondCached(ctx echo.Context, resp *CachedResponse) error {
	for name, value := range resp.Header {
		ctx.Response().Header().Set(name, value)
	}
	contentType := resp.Header["Content-Type"]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return ctx.Blob(resp.Status, contentType, resp.Body)
}
