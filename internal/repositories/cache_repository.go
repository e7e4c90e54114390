package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface — устойчивый локальный key-value кеш.
// Реализация по умолчанию — Redis; в тестах используется память.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error

	// Keys возвращает ключи по шаблону (например "assets:*").
	// Нужен офлайн-прокси для перечисления неймспейсов ресурсов.
	Keys(ctx context.Context, pattern string) ([]string, error)
}
