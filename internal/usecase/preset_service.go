package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/macrolens/foodlog/internal/domain"
	"github.com/macrolens/foodlog/internal/platform/logger"
)

const customPresetPrefix = "custom-"

// PresetService manages built-in and user-created presets
type PresetService struct {
	builtin []domain.Preset
	store   domain.PresetStore
	log     *logger.Logger
}

// NewPresetService creates a preset service over the given built-ins and custom preset store
func NewPresetService(builtin []domain.Preset, store domain.PresetStore, log *logger.Logger) *PresetService {
	if log == nil {
		log = logger.Nop()
	}
	b := make([]domain.Preset, len(builtin))
	copy(b, builtin)
	for i := range b {
		b[i].Builtin = true
	}
	return &PresetService{
		builtin: b,
		store:   store,
		log:     log.With("service", "PresetService"),
	}
}

// List returns built-in presets in catalogue order followed by custom presets sorted by name
func (s *PresetService) List(ctx context.Context) ([]domain.Preset, error) {
	custom, err := s.store.ListPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	sort.SliceStable(custom, func(i, j int) bool {
		return strings.ToLower(custom[i].Name) < strings.ToLower(custom[j].Name)
	})

	out := make([]domain.Preset, 0, len(s.builtin)+len(custom))
	out = append(out, s.builtin...)
	out = append(out, custom...)
	return out, nil
}

// Get looks a preset up by id; domain.ErrNotFound when unknown
func (s *PresetService) Get(ctx context.Context, id string) (*domain.Preset, error) {
	if p, ok := s.findBuiltin(id); ok {
		return &p, nil
	}
	return s.store.GetPreset(ctx, id)
}

// Match returns presets whose name or description contains query,
// ignoring case and accents
func (s *PresetService) Match(ctx context.Context, query string) ([]domain.Preset, error) {
	needle := foldText(query)
	if needle == "" {
		return []domain.Preset{}, nil
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Preset, 0)
	for _, p := range all {
		if strings.Contains(foldText(p.Name), needle) || strings.Contains(foldText(p.Description), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Create stores a new custom preset
func (s *PresetService) Create(ctx context.Context, input domain.PresetInput) (*domain.Preset, error) {
	p, err := presetFromInput(input)
	if err != nil {
		return nil, err
	}
	p.ID = customPresetPrefix + uuid.NewString()

	if err := s.store.SavePreset(ctx, &p); err != nil {
		return nil, fmt.Errorf("save preset: %w", err)
	}
	s.log.Info("preset created", "preset_id", p.ID, "name", p.Name)
	return &p, nil
}

// Update replaces the fields of an existing custom preset
func (s *PresetService) Update(ctx context.Context, id string, input domain.PresetInput) (*domain.Preset, error) {
	if _, ok := s.findBuiltin(id); ok {
		return nil, fmt.Errorf("%w: built-in preset %q is read-only", domain.ErrInvalidRequest, id)
	}
	if _, err := s.store.GetPreset(ctx, id); err != nil {
		return nil, err
	}

	p, err := presetFromInput(input)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.store.SavePreset(ctx, &p); err != nil {
		return nil, fmt.Errorf("save preset: %w", err)
	}
	return &p, nil
}

// Delete removes a custom preset. Built-ins cannot be deleted.
func (s *PresetService) Delete(ctx context.Context, id string) error {
	if _, ok := s.findBuiltin(id); ok {
		return fmt.Errorf("%w: built-in preset %q is read-only", domain.ErrInvalidRequest, id)
	}
	if err := s.store.DeletePreset(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

func (s *PresetService) findBuiltin(id string) (domain.Preset, bool) {
	for _, p := range s.builtin {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Preset{}, false
}

func presetFromInput(input domain.PresetInput) (domain.Preset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Preset{}, fmt.Errorf("%w: preset name is required", domain.ErrInvalidRequest)
	}
	return domain.Preset{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Protein:     nonNegative(input.Protein),
		Fat:         nonNegative(input.Fat),
		Carbs:       nonNegative(input.Carbs),
		Calories:    nonNegative(input.Calories),
	}, nil
}

// nonNegative maps negative and non-finite values to 0
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
