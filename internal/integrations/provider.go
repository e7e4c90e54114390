package integrations

import (
	"context"

	"treecare-system/internal/entities"
)

// SyncProvider — контракт необязательного удалённого бекенда синхронизации.
// Провайдер разрешается один раз при старте и внедряется в оркестратор;
// nil-провайдер (или IsEnabled() == false) означает локальный режим.
type SyncProvider interface {
	Name() string

	// IsEnabled сообщает, сконфигурирован ли провайдер. Проверяется один
	// раз оркестратором, а не при каждом вызове.
	IsEnabled() bool

	// Load запрашивает полный снапшот. (nil, nil) означает, что у бекенда
	// данных ещё нет — это не ошибка.
	Load(ctx context.Context) (*entities.Snapshot, error)

	// Save отправляет полный снапшот. Вызывается best-effort: ошибка
	// логируется, но не откатывает локальную запись.
	Save(ctx context.Context, snapshot *entities.Snapshot) error

	// Subscribe запускает непрерывную подписку на изменения. Callback
	// получает каждый новый снапшот целиком, без диффов.
	Subscribe(ctx context.Context, onUpdate func(*entities.Snapshot)) error
}
