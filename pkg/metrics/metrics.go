// Файл: pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики каскада загрузки и офлайн-прокси. Регистрируются в глобальном
// реестре, отдаются через /metrics.
var (
	// LoadTier считает, какой ярус каскада в итоге отдал снапшот:
	// remote | cache | static | empty.
	LoadTier = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treecare_load_tier_total",
		Help: "Сколько раз каждый ярус каскада стал источником снапшота.",
	}, []string{"tier"})

	// CachePurges считает удаления записи локального кеша из-за устаревшей схемы.
	CachePurges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treecare_cache_purges_total",
		Help: "Сколько раз запись локального кеша была вычищена как устаревшая.",
	})

	// SnapshotSaves считает сохранения снапшота.
	SnapshotSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treecare_snapshot_saves_total",
		Help: "Сколько раз снапшот был сохранён через оркестратор.",
	})

	// ProxyRequests считает исходы запросов через офлайн-прокси:
	// network | cache | offline | bypass.
	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treecare_proxy_requests_total",
		Help: "Исходы запросов статических ресурсов через офлайн-прокси.",
	}, []string{"result"})
)
