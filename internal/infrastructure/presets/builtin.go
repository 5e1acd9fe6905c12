package presets

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/macrolens/foodlog/internal/domain"
)

//go:embed presets.yaml
var builtinYAML []byte

type presetFile struct {
	Presets []domain.Preset `yaml:"presets"`
}

var (
	builtinOnce sync.Once
	builtin     []domain.Preset
	builtinErr  error
)

// Builtin returns the presets shipped with the binary, in file order.
// Callers receive a fresh copy.
func Builtin() ([]domain.Preset, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(builtinYAML)
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	out := make([]domain.Preset, len(builtin))
	copy(out, builtin)
	return out, nil
}

// Parse decodes a presets YAML document. Every preset needs a unique id and a name.
func Parse(data []byte) ([]domain.Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Presets))
	for i := range file.Presets {
		p := &file.Presets[i]
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("parse presets: entry %d needs id and name", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("parse presets: duplicate id %q", p.ID)
		}
		seen[p.ID] = true
		p.Builtin = true
	}
	return file.Presets, nil
}
