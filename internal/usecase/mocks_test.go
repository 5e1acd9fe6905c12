package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/macrolens/foodlog/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]byte
	getError  error
	setError  error
	getCalled int
	setCalled int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockUSDAClient is a mock implementation of domain.USDAClient
type MockUSDAClient struct {
	mu           sync.Mutex
	searchResult *domain.USDASearchResponse
	searchError  error
	foodResult   *domain.USDAFood
	foodError    error
	searchCalls  int
	detailCalls  int
	lastQuery    string
}

func NewMockUSDAClient() *MockUSDAClient {
	return &MockUSDAClient{}
}

func (m *MockUSDAClient) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	m.lastQuery = query
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func (m *MockUSDAClient) GetFoodDetails(ctx context.Context, fdcID int64) (*domain.USDAFood, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls++
	if m.foodError != nil {
		return nil, m.foodError
	}
	return m.foodResult, nil
}

// MockPresetStore keeps custom presets in memory
type MockPresetStore struct {
	mu      sync.Mutex
	presets map[string]domain.Preset
	listErr error
}

func NewMockPresetStore() *MockPresetStore {
	return &MockPresetStore{presets: make(map[string]domain.Preset)}
}

func (m *MockPresetStore) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Preset, 0, len(m.presets))
	for _, p := range m.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockPresetStore) GetPreset(ctx context.Context, id string) (*domain.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.presets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *MockPresetStore) SavePreset(ctx context.Context, preset *domain.Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets[preset.ID] = *preset
	return nil
}

func (m *MockPresetStore) DeletePreset(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.presets, id)
	return nil
}

// MockLogStore keeps daily logs and goals in memory
type MockLogStore struct {
	mu      sync.Mutex
	entries map[string][]domain.LoggedFoodEntry
	goals   *domain.Goals
	seq     int
	goalErr error
}

func NewMockLogStore() *MockLogStore {
	return &MockLogStore{entries: make(map[string][]domain.LoggedFoodEntry)}
}

func (m *MockLogStore) AppendEntry(ctx context.Context, date string, entry *domain.LoggedFoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("entry-%d", m.seq)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	}
	m.entries[date] = append(m.entries[date], *entry)
	return nil
}

func (m *MockLogStore) ListEntries(ctx context.Context, date string) ([]domain.LoggedFoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.LoggedFoodEntry, len(m.entries[date]))
	copy(out, m.entries[date])
	return out, nil
}

func (m *MockLogStore) DeleteEntry(ctx context.Context, date, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.entries[date]
	for i, e := range list {
		if e.ID == id {
			m.entries[date] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockLogStore) GetGoals(ctx context.Context) (*domain.Goals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.goalErr != nil {
		return nil, m.goalErr
	}
	if m.goals == nil {
		return nil, domain.ErrNotFound
	}
	g := *m.goals
	return &g, nil
}

func (m *MockLogStore) SaveGoals(ctx context.Context, goals *domain.Goals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := *goals
	m.goals = &g
	return nil
}

// stubPresetMatcher returns fixed matches
type stubPresetMatcher struct {
	matches []domain.Preset
	err     error
}

func (s stubPresetMatcher) Match(ctx context.Context, query string) ([]domain.Preset, error) {
	return s.matches, s.err
}

func f64(v float64) *float64 { return &v }
