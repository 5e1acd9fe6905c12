package domain

// Preset is a locally defined food with fixed macros, logged as-is without scaling
type Preset struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Protein     float64 `json:"protein" yaml:"protein"`
	Fat         float64 `json:"fat" yaml:"fat"`
	Carbs       float64 `json:"carbs" yaml:"carbs"`
	Calories    float64 `json:"calories" yaml:"calories"`
	Builtin     bool    `json:"builtin" yaml:"-"`
}

// Summary converts the preset to the canonical search-result shape
func (p Preset) Summary() FoodSummary {
	return FoodSummary{
		ID:               PresetFoodID(p.ID),
		Name:             p.Name,
		Description:      p.Description,
		Source:           SourcePreset,
		Protein:          p.Protein,
		Fat:              p.Fat,
		Carbs:            p.Carbs,
		Calories:         p.Calories,
		ServingSizeLabel: p.Description,
	}
}

// PresetInput carries user-supplied preset fields for create and update
type PresetInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Carbs       float64 `json:"carbs"`
	Calories    float64 `json:"calories"`
}
