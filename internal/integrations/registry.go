// Файл: internal/integrations/registry.go
package integrations

import (
	"fmt"
	"sync"
)

// RegistryInterface определяет, что должен уметь реестр провайдеров.
type RegistryInterface interface {
	Register(provider SyncProvider) error
	Get(name string) (SyncProvider, error)
	SetActive(name string) error

	// GetActive возвращает активного провайдера. Если активный не
	// установлен, возвращается nil без ошибки — это штатный локальный режим.
	GetActive() SyncProvider
}

type Registry struct {
	providers map[string]SyncProvider
	active    string
	mu        sync.RWMutex
}

func NewRegistry() RegistryInterface {
	return &Registry{
		providers: make(map[string]SyncProvider),
	}
}

func (r *Registry) Register(provider SyncProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("провайдер с именем '%s' уже зарегистрирован", name)
	}

	r.providers[name] = provider
	return nil
}

func (r *Registry) Get(name string) (SyncProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("провайдер с именем '%s' не найден", name)
	}
	return provider, nil
}

func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("невозможно установить активным провайдера '%s': он не зарегистрирован", name)
	}

	r.active = name
	return nil
}

func (r *Registry) GetActive() SyncProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == "" {
		return nil
	}
	return r.providers[r.active]
}
