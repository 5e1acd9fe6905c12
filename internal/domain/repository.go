package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded bytes so memory and Redis backends behave the same.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// USDAClient defines the interface for interacting with USDA FoodData Central API
type USDAClient interface {
	SearchFoods(ctx context.Context, query string) (*USDASearchResponse, error)
	GetFoodDetails(ctx context.Context, fdcID int64) (*USDAFood, error)
}

// LogStore persists daily logs and goals
type LogStore interface {
	// AppendEntry stores entry under date. The store assigns ID and CreatedAt when unset.
	AppendEntry(ctx context.Context, date string, entry *LoggedFoodEntry) error
	// ListEntries returns the entries of date in creation order
	ListEntries(ctx context.Context, date string) ([]LoggedFoodEntry, error)
	// DeleteEntry removes an entry; it returns ErrNotFound when absent
	DeleteEntry(ctx context.Context, date, id string) error
	// GetGoals returns ErrNotFound when no goals were ever saved
	GetGoals(ctx context.Context) (*Goals, error)
	SaveGoals(ctx context.Context, goals *Goals) error
}

// PresetStore persists user-created presets
type PresetStore interface {
	ListPresets(ctx context.Context) ([]Preset, error)
	GetPreset(ctx context.Context, id string) (*Preset, error)
	SavePreset(ctx context.Context, preset *Preset) error
	DeletePreset(ctx context.Context, id string) error
}
