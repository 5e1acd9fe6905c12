package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/macrolens/foodlog/internal/domain"
)

const (
	pebbleDir    = "pebble"
	logPrefix    = "log/"
	presetPrefix = "preset/"
	goalsKey     = "goals"
)

// Store persists daily logs, goals and custom presets in a Pebble KV store.
// Values are JSON documents.
//
// Key layout:
//
//	log/<date>/<created-at unix nanos, zero padded>/<entry id>
//	preset/<preset id>
//	goals
type Store struct {
	db  *pebble.DB
	now func() time.Time
}

// Open opens (or creates) the store under dataDir
func Open(dataDir string) (*Store, error) {
	db, err := pebble.Open(filepath.Join(dataDir, pebbleDir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("pebble close: %w", err)
	}
	return nil
}

func entryKey(date string, createdAt time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d/%s", logPrefix, date, createdAt.UnixNano(), id))
}

func datePrefix(date string) []byte {
	return []byte(logPrefix + date + "/")
}

func presetKey(id string) []byte {
	return []byte(presetPrefix + id)
}

// upperBound returns the smallest key greater than every key carrying prefix
func upperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (s *Store) putJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.db.Set(key, data, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

// getJSON decodes the value at key into v; domain.ErrNotFound when absent
func (s *Store) getJSON(key []byte, v interface{}) error {
	val, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	if err := json.Unmarshal(val, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// scan calls fn for every key/value under prefix in key order. Stop early by returning errStop.
func (s *Store) scan(prefix []byte, fn func(key, value []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			_ = iter.Close()
			if errors.Is(err, errStop) {
				return nil
			}
			return err
		}
	}
	if err := iter.Close(); err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	return nil
}

var errStop = errors.New("stop scan")

// AppendEntry stores entry under date, assigning ID and CreatedAt when unset
func (s *Store) AppendEntry(ctx context.Context, date string, entry *domain.LoggedFoodEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", domain.ErrInvalidRequest)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	return s.putJSON(entryKey(date, entry.CreatedAt, entry.ID), entry)
}

// ListEntries returns the entries of date in creation order
func (s *Store) ListEntries(ctx context.Context, date string) ([]domain.LoggedFoodEntry, error) {
	entries := []domain.LoggedFoodEntry{}
	err := s.scan(datePrefix(date), func(key, value []byte) error {
		var e domain.LoggedFoodEntry
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry removes the entry with id from date
func (s *Store) DeleteEntry(ctx context.Context, date, id string) error {
	var found []byte
	suffix := "/" + id
	err := s.scan(datePrefix(date), func(key, _ []byte) error {
		if strings.HasSuffix(string(key), suffix) {
			found = append([]byte(nil), key...)
			return errStop
		}
		return nil
	})
	if err != nil {
		return err
	}
	if found == nil {
		return domain.ErrNotFound
	}
	if err := s.db.Delete(found, pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}

// GetGoals returns domain.ErrNotFound when goals were never saved
func (s *Store) GetGoals(ctx context.Context) (*domain.Goals, error) {
	var goals domain.Goals
	if err := s.getJSON([]byte(goalsKey), &goals); err != nil {
		return nil, err
	}
	return &goals, nil
}

func (s *Store) SaveGoals(ctx context.Context, goals *domain.Goals) error {
	if goals == nil {
		return fmt.Errorf("%w: nil goals", domain.ErrInvalidRequest)
	}
	return s.putJSON([]byte(goalsKey), goals)
}

// ListPresets returns every stored preset ordered by id
func (s *Store) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	presets := []domain.Preset{}
	err := s.scan([]byte(presetPrefix), func(key, value []byte) error {
		var p domain.Preset
		if err := json.Unmarshal(value, &p); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		presets = append(presets, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return presets, nil
}

func (s *Store) GetPreset(ctx context.Context, id string) (*domain.Preset, error) {
	var p domain.Preset
	if err := s.getJSON(presetKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePreset inserts or replaces the preset keyed by its ID
func (s *Store) SavePreset(ctx context.Context, preset *domain.Preset) error {
	if preset == nil || preset.ID == "" {
		return fmt.Errorf("%w: preset id required", domain.ErrInvalidRequest)
	}
	return s.putJSON(presetKey(preset.ID), preset)
}

// DeletePreset returns domain.ErrNotFound when the preset does not exist
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	key := presetKey(id)
	_, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("pebble get: %w", err)
	}
	closer.Close()

	if err := s.db.Delete(key, pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}

var (
	_ domain.LogStore    = (*Store)(nil)
	_ domain.PresetStore = (*Store)(nil)
)
