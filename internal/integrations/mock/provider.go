package mock

import (
	"context"
	"sync"

	"treecare-system/internal/entities"
	apperrors "treecare-system/pkg/errors"
)

// MockProvider — провайдер синхронизации в памяти для разработки и тестов.
type MockProvider struct {
	mu         sync.Mutex
	Snapshot   *entities.Snapshot
	Enabled    bool
	ShouldFail bool

	SaveCalls int
	onUpdate  func(*entities.Snapshot)
}

func NewMockProvider() *MockProvider {
	return &MockProvider{Enabled: true}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) IsEnabled() bool {
	return m.Enabled
}

func (m *MockProvider) Load(ctx context.Context) (*entities.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return nil, apperrors.ErrRemoteOffline
	}
	if m.Snapshot == nil {
		return nil, nil
	}
	return m.Snapshot.Clone(), nil
}

func (m *MockProvider) Save(ctx context.Context, snapshot *entities.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return apperrors.ErrRemoteOffline
	}
	m.Snapshot = snapshot.Clone()
	m.SaveCalls++
	return nil
}

func (m *MockProvider) Subscribe(ctx context.Context, onUpdate func(*entities.Snapshot)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = onUpdate
	return nil
}

// PushUpdate имитирует приход нового снапшота с бекенда.
func (m *MockProvider) PushUpdate(snapshot *entities.Snapshot) {
	m.mu.Lock()
	callback := m.onUpdate
	m.Snapshot = snapshot.Clone()
	m.mu.Unlock()

	if callback != nil {
		callback(snapshot.Clone())
	}
}
