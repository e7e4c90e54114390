// Файл: internal/integrations/httpbackend/provider.go
package httpbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"treecare-system/internal/entities"
	"treecare-system/internal/integrations"
)

// Provider — HTTP-фасад удалённого бекенда синхронизации.
// Контракт бекенда: GET /snapshot отдаёт полный снапшот (с ETag),
// PUT /snapshot принимает полный снапшот. Подписка реализована опросом
// по расписанию со сравнением ETag: 304 означает "без изменений".
type Provider struct {
	httpClient   *http.Client
	baseURL      string
	pollInterval time.Duration
	logger       *zap.Logger

	// Последний увиденный ETag, чтобы не будить подписчиков без изменений.
	etagMutex sync.Mutex
	lastETag  string
}

func New(baseURL string, pollInterval time.Duration, logger *zap.Logger) integrations.SyncProvider {
	return &Provider{
		httpClient:   &http.Client{Timeout: 20 * time.Second},
		baseURL:      baseURL,
		pollInterval: pollInterval,
		logger:       logger.Named("httpbackend_provider"),
	}
}

func (p *Provider) Name() string {
	return "http"
}

func (p *Provider) IsEnabled() bool {
	return p.baseURL != ""
}

// Load запрашивает полный снапшот. Любая транспортная ошибка уходит наверх
// как есть: оркестратор трактует её как промах яруса и идёт дальше по каскаду.
func (p *Provider) Load(ctx context.Context) (*entities.Snapshot, error) {
	snap, _, err := p.fetch(ctx, "")
	return snap, err
}

func (p *Provider) Save(ctx context.Context, snapshot *entities.Snapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("ошибка сериализации снапшота: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, p.baseURL+"/snapshot", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки снапшота на удалённый бекенд: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("удалённый бекенд ответил статусом %d", resp.StatusCode)
	}

	p.logger.Debug("Снапшот отправлен на удалённый бекенд", zap.Int("status", resp.StatusCode))
	return nil
}

// Subscribe запускает cron-опрос бекенда. Callback вызывается только когда
// ETag снапшота изменился. Остановка — через отмену контекста.
func (p *Provider) Subscribe(ctx context.Context, onUpdate func(*entities.Snapshot)) error {
	c := cron.New()
	spec := fmt.Sprintf("@every %s", p.pollInterval)

	_, err := c.AddFunc(spec, func() {
		p.poll(ctx, onUpdate)
	})
	if err != nil {
		return fmt.Errorf("не удалось запланировать опрос удалённого бекенда: %w", err)
	}

	c.Start()
	p.logger.Info("Подписка на удалённый бекенд запущена", zap.Duration("interval", p.pollInterval))

	go func() {
		<-ctx.Done()
		c.Stop()
		p.logger.Info("Подписка на удалённый бекенд остановлена")
	}()

	return nil
}

func (p *Provider) poll(ctx context.Context, onUpdate func(*entities.Snapshot)) {
	p.etagMutex.Lock()
	etag := p.lastETag
	p.etagMutex.Unlock()

	snap, newETag, err := p.fetch(ctx, etag)
	if err != nil {
		p.logger.Warn("Опрос удалённого бекенда не удался", zap.Error(err))
		return
	}
	if snap == nil {
		// 304 или пустой бекенд — изменений нет.
		return
	}

	p.etagMutex.Lock()
	p.lastETag = newETag
	p.etagMutex.Unlock()

	p.logger.Info("Удалённый бекенд сообщил об изменении снапшота",
		zap.Int("tickets", len(snap.Tickets)),
		zap.String("etag", newETag),
	)
	onUpdate(snap)
}

// fetch выполняет GET /snapshot. При совпадении ETag возвращает (nil, etag, nil).
func (p *Provider) fetch(ctx context.Context, etag string) (*entities.Snapshot, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/snapshot", nil)
	if err != nil {
		return nil, "", err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("удалённый бекенд недоступен: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return nil, etag, nil
	case http.StatusNotFound:
		// У бекенда ещё нет данных — не ошибка.
		return nil, "", nil
	case http.StatusOK:
	default:
		return nil, "", fmt.Errorf("удалённый бекенд ответил статусом %d", resp.StatusCode)
	}

	rawData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка чтения ответа удалённого бекенда: %w", err)
	}

	var snap entities.Snapshot
	if err := json.Unmarshal(rawData, &snap); err != nil {
		return nil, "", fmt.Errorf("ошибка разбора снапшота от удалённого бекенда: %w", err)
	}

	return &snap, resp.Header.Get("ETag"), nil
}
