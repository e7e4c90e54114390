// Файл: internal/services/orchestrator.go
package services

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"treecare-system/internal/dataset"
	"treecare-system/internal/entities"
	"treecare-system/internal/integrations"
	"treecare-system/internal/repositories"
	"treecare-system/pkg/metrics"
)

const (
	// Единственный ключ локального кеша со снапшотом.
	snapshotCacheKey = "dataset:snapshot"

	// Текущая версия схемы записи в кеше. Несовпадение версии — это
	// устаревшая запись, она вычищается целиком.
	snapshotSchemaVersion = 2

	// Одноразовое миграционное правило для записей без конверта версии:
	// id заявок из старого генератора начинались с 2000, такие данные
	// считаются устаревшими и выбрасываются.
	legacyTicketIDThreshold = 2000
)

// Имена ярусов каскада для логов и метрик.
const (
	tierRemote = "remote"
	tierCache  = "cache"
	tierStatic = "static"
	tierEmpty  = "empty"
)

// LoadState — явное состояние оркестратора вместо модульного флага "loaded".
type LoadState int

const (
	StateUninitialized LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// cacheEnvelope — формат записи в локальном кеше: снапшот плюс явная
// версия схемы. Старые записи хранили снапшот без конверта.
type cacheEnvelope struct {
	SchemaVersion int                `json:"schemaVersion"`
	Snapshot      *entities.Snapshot `json:"snapshot"`
}

// DataOrchestratorInterface — единственный владелец снапшота в памяти.
// Все мутации идут через Save, все чтения — через Load/Snapshot.
type DataOrchestratorInterface interface {
	// Load выполняет каскад загрузки. Никогда не возвращает ошибку:
	// терминальный fallback — пустой, но валидный снапшот.
	Load(ctx context.Context) *entities.Snapshot

	// Save пересчитывает stats и сохраняет снапшот: локально — всегда,
	// удалённо — best-effort. Ошибки обоих путей только логируются.
	Save(ctx context.Context, snapshot *entities.Snapshot)

	// Snapshot возвращает текущий снапшот (после Load) либо nil.
	Snapshot() *entities.Snapshot

	State() LoadState

	// Reinitialize сбрасывает состояние; следующий Load заново пройдёт каскад.
	Reinitialize()

	// Subscribe регистрирует локального подписчика на смену снапшота.
	Subscribe(onUpdate func(*entities.Snapshot))

	// StartRemoteSync запускает подписку на удалённый бекенд (если он есть).
	StartRemoteSync(ctx context.Context) error

	// BeginEdit/EndEdit — явная блокировка редактирования: пока локальная
	// правка в полёте, входящий удалённый снапшот буферизуется и
	// применяется на EndEdit, а не посреди правки.
	BeginEdit()
	EndEdit()
}

type DataOrchestrator struct {
	provider integrations.SyncProvider
	cache    repositories.CacheRepositoryInterface
	logger   *zap.Logger

	mu            sync.Mutex
	state         LoadState
	snapshot      *entities.Snapshot
	subscribers   []func(*entities.Snapshot)
	editing       int
	pendingRemote *entities.Snapshot
}

// NewDataOrchestrator создаёт оркестратор. provider может быть nil —
// это явный локальный режим без удалённой синхронизации.
func NewDataOrchestrator(
	provider integrations.SyncProvider,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *DataOrchestrator {
	return &DataOrchestrator{
		provider: provider,
		cache:    cache,
		logger:   logger,
		state:    StateUninitialized,
	}
}

func (o *DataOrchestrator) Load(ctx context.Context) *entities.Snapshot {
	o.mu.Lock()

	// Идемпотентность после первого завершения: и Ready, и Failed держат
	// свой снапшот до явного Reinitialize.
	if o.state == StateReady || o.state == StateFailed {
		snap := o.snapshot
		o.mu.Unlock()
		return snap
	}

	o.state = StateLoading
	snap, tier := o.runCascade(ctx)

	o.snapshot = snap
	if tier == tierEmpty {
		o.state = StateFailed
	} else {
		o.state = StateReady
	}
	metrics.LoadTier.WithLabelValues(tier).Inc()
	o.logger.Info("Снапшот загружен",
		zap.String("tier", tier),
		zap.String("state", o.state.String()),
		zap.Int("tickets", len(snap.Tickets)),
	)
	o.mu.Unlock()
	return snap
}

// runCascade проходит ярусы по порядку, первый успех побеждает.
func (o *DataOrchestrator) runCascade(ctx context.Context) (*entities.Snapshot, string) {
	// Ярус 1: удалённый бекенд.
	if o.provider != nil && o.provider.IsEnabled() {
		snap, err := o.provider.Load(ctx)
		switch {
		case err != nil:
			o.logger.Warn("Удалённый бекенд недоступен, переход к локальному кешу", zap.Error(err))
		case snap != nil:
			snap.RecomputeStats()
			// Write-through: зеркалим в локальный кеш до возврата.
			o.persistLocal(ctx, snap)
			return snap, tierRemote
		default:
			o.logger.Info("Удалённый бекенд пуст, переход к локальному кешу")
		}
	}

	// Ярус 2: локальный кеш.
	if snap := o.readLocalCache(ctx); snap != nil {
		return snap, tierCache
	}

	// Ярус 3: вшитый статический набор.
	if snap, err := dataset.LoadStatic(); err == nil {
		// Первая запись в кеш, чтобы следующие загрузки шли через ярус 2.
		o.persistLocal(ctx, snap)
		return snap, tierStatic
	} else {
		o.logger.Error("Не удалось прочитать вшитый статический набор", zap.Error(err))
	}

	// Ярус 4: структурно валидный пустой снапшот.
	o.logger.Warn("Все ярусы каскада исчерпаны, возвращается пустой снапшот")
	return dataset.EmptySnapshot(), tierEmpty
}

// readLocalCache читает и валидирует запись локального кеша.
// Любой изъян — это промах яруса; устаревшая схема дополнительно
// вычищает запись (одностороннее решение на эту загрузку).
func (o *DataOrchestrator) readLocalCache(ctx context.Context) *entities.Snapshot {
	raw, err := o.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		o.logger.Debug("Локальный кеш пуст или недоступен", zap.Error(err))
		return nil
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil || envelope.Snapshot == nil {
		return o.readLegacyCache(ctx, raw)
	}

	if envelope.SchemaVersion != snapshotSchemaVersion {
		o.purgeCache(ctx, "несовпадение версии схемы",
			zap.Int("cachedVersion", envelope.SchemaVersion),
			zap.Int("currentVersion", snapshotSchemaVersion))
		return nil
	}

	return o.acceptCached(envelope.Snapshot)
}

// readLegacyCache обрабатывает записи старого формата: снапшот без конверта.
// Если в нём есть заявки из легаси-диапазона id, запись устарела целиком.
func (o *DataOrchestrator) readLegacyCache(ctx context.Context, raw string) *entities.Snapshot {
	var snap entities.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		o.logger.Warn("Запись локального кеша не разбирается, ярус пропущен", zap.Error(err))
		return nil
	}

	for _, t := range snap.Tickets {
		if t.ID >= legacyTicketIDThreshold {
			o.purgeCache(ctx, "обнаружены заявки из легаси-диапазона id",
				zap.Uint64("ticketID", t.ID))
			return nil
		}
	}

	return o.acceptCached(&snap)
}

// acceptCached выполняет миграционный проход над данными из кеша:
// справочники заменяются каноническими, устаревшие ссылки в заявках
// переписываются, stats пересчитывается.
func (o *DataOrchestrator) acceptCached(snap *entities.Snapshot) *entities.Snapshot {
	if migrated := dataset.Migrate(snap); migrated > 0 {
		o.logger.Info("Мигрированы устаревшие коды повреждений в заявках из кеша",
			zap.Int("tickets", migrated))
	}
	snap.RecomputeStats()
	return snap
}

func (o *DataOrchestrator) purgeCache(ctx context.Context, reason string, fields ...zap.Field) {
	fields = append(fields, zap.String("reason", reason))
	o.logger.Warn("Запись локального кеша вычищена", fields...)
	if err := o.cache.Del(ctx, snapshotCacheKey); err != nil {
		o.logger.Error("Не удалось удалить устаревшую запись кеша", zap.Error(err))
	}
	metrics.CachePurges.Inc()
}

// persistLocal пишет снапшот в локальный кеш. Fire-and-forget: ошибка
// логируется и не прерывает вызывающий путь.
func (o *DataOrchestrator) persistLocal(ctx context.Context, snap *entities.Snapshot) {
	body, err := json.Marshal(cacheEnvelope{
		SchemaVersion: snapshotSchemaVersion,
		Snapshot:      snap,
	})
	if err != nil {
		o.logger.Error("Ошибка сериализации снапшота для кеша", zap.Error(err))
		return
	}
	if err := o.cache.Set(ctx, snapshotCacheKey, string(body), 0); err != nil {
		o.logger.Error("Не удалось записать снапшот в локальный кеш", zap.Error(err))
	}
}

func (o *DataOrchestrator) Save(ctx context.Context, snapshot *entities.Snapshot) {
	o.mu.Lock()

	// stats от вызывающего кода не принимается на веру.
	snapshot.RecomputeStats()
	o.snapshot = snapshot
	if o.state == StateUninitialized || o.state == StateFailed {
		o.state = StateReady
	}

	o.persistLocal(ctx, snapshot)

	if o.provider != nil && o.provider.IsEnabled() {
		// Локально-первый путь: провал удалённой записи ничего не откатывает.
		if err := o.provider.Save(ctx, snapshot); err != nil {
			o.logger.Warn("Не удалось отправить снапшот на удалённый бекенд", zap.Error(err))
		}
	}

	metrics.SnapshotSaves.Inc()
	subscribers := append(([]func(*entities.Snapshot))(nil), o.subscribers...)
	o.mu.Unlock()

	for _, onUpdate := range subscribers {
		onUpdate(snapshot)
	}
}

func (o *DataOrchestrator) Snapshot() *entities.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

func (o *DataOrchestrator) State() LoadState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *DataOrchestrator) Reinitialize() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateUninitialized
	o.snapshot = nil
	o.pendingRemote = nil
	o.logger.Info("Оркестратор сброшен, следующий Load пройдёт каскад заново")
}

func (o *DataOrchestrator) Subscribe(onUpdate func(*entities.Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribers = append(o.subscribers, onUpdate)
}

func (o *DataOrchestrator) StartRemoteSync(ctx context.Context) error {
	if o.provider == nil || !o.provider.IsEnabled() {
		o.logger.Info("Удалённый бекенд не сконфигурирован, живые обновления отключены")
		return nil
	}
	return o.provider.Subscribe(ctx, o.applyRemoteSnapshot)
}

// applyRemoteSnapshot заменяет снапшот целиком (без merge) и зеркалит его
// в локальный кеш. Если идёт локальная правка, снапшот буферизуется
// (побеждает последний) и применяется на EndEdit.
func (o *DataOrchestrator) applyRemoteSnapshot(snap *entities.Snapshot) {
	o.mu.Lock()

	if o.editing > 0 {
		o.pendingRemote = snap
		o.logger.Info("Идёт локальная правка, удалённый снапшот отложен")
		o.mu.Unlock()
		return
	}

	subscribers := o.applyRemoteLocked(snap)
	o.mu.Unlock()

	for _, onUpdate := range subscribers {
		onUpdate(snap)
	}
}

// applyRemoteLocked применяет удалённый снапшот под уже взятым замком
// и возвращает список подписчиков для уведомления после разблокировки.
func (o *DataOrchestrator) applyRemoteLocked(snap *entities.Snapshot) []func(*entities.Snapshot) {
	snap.RecomputeStats()
	o.snapshot = snap
	o.state = StateReady
	o.persistLocal(context.Background(), snap)
	o.logger.Info("Применён снапшот от удалённого бекенда", zap.Int("tickets", len(snap.Tickets)))
	return append(([]func(*entities.Snapshot))(nil), o.subscribers...)
}

func (o *DataOrchestrator) BeginEdit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.editing++
}

func (o *DataOrchestrator) EndEdit() {
	o.mu.Lock()

	if o.editing > 0 {
		o.editing--
	}

	if o.editing > 0 || o.pendingRemote == nil {
		o.mu.Unlock()
		return
	}

	snap := o.pendingRemote
	o.pendingRemote = nil
	subscribers := o.applyRemoteLocked(snap)
	o.mu.Unlock()

	for _, onUpdate := range subscribers {
		onUpdate(snap)
	}
}
