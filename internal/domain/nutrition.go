package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Food sources
const (
	SourceUSDA   = "USDA"
	SourcePreset = "Preset"
)

// FoodID identifies a food either by its upstream FDC id or by a local preset id.
// Upstream ids travel as JSON numbers and preset ids as JSON strings.
type FoodID struct {
	FdcID    int64
	PresetID string
}

// UpstreamID returns the id of a food sourced from USDA FoodData Central
func UpstreamID(fdcID int64) FoodID {
	return FoodID{FdcID: fdcID}
}

// PresetFoodID returns the id of a local preset
func PresetFoodID(id string) FoodID {
	return FoodID{PresetID: id}
}

// IsUpstream reports whether the id refers to a USDA food
func (id FoodID) IsUpstream() bool {
	return id.PresetID == "" && id.FdcID != 0
}

// IsZero reports whether the id is unset
func (id FoodID) IsZero() bool {
	return id.PresetID == "" && id.FdcID == 0
}

func (id FoodID) String() string {
	if id.PresetID != "" {
		return id.PresetID
	}
	return strconv.FormatInt(id.FdcID, 10)
}

// MarshalJSON implements json.Marshaler
func (id FoodID) MarshalJSON() ([]byte, error) {
	if id.PresetID != "" {
		return json.Marshal(id.PresetID)
	}
	return []byte(strconv.FormatInt(id.FdcID, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *FoodID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = FoodID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PresetFoodID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("food id %s: %w", data, err)
	}
	*id = UpstreamID(n)
	return nil
}

// FoodSummary is the canonical record used in search results and as the base of details.
// Macro fields are reported per the record's base quantity described by ServingSizeLabel.
type FoodSummary struct {
	ID               FoodID  `json:"id"`
	Name             string  `json:"name"`
	Brand            string  `json:"brand,omitempty"`
	Description      string  `json:"description,omitempty"`
	Source           string  `json:"source"` // "USDA" or "Preset"
	Protein          float64 `json:"protein"`  // grams
	Fat              float64 `json:"fat"`      // grams
	Carbs            float64 `json:"carbs"`    // grams
	Calories         float64 `json:"calories"` // kcal
	ServingSizeLabel string  `json:"servingSizeLabel"`
}

// PortionKind tells how a portion was derived
type PortionKind string

const (
	PortionKindBase    PortionKind = "base"    // the 100 g portion
	PortionKindGram    PortionKind = "gram"    // the 1 g precision portion
	PortionKindServing PortionKind = "serving" // the declared branded serving
	PortionKindMeasure PortionKind = "measure" // survey / measured household portions
)

// Portion maps a named unit to a gram weight
type Portion struct {
	Label      string      `json:"label"`
	GramWeight float64     `json:"gramWeight"`
	IsDefault  bool        `json:"isDefault"`
	Kind       PortionKind `json:"kind"`
}

// FoodDetail extends FoodSummary with everything needed to scale a food to a chosen portion
type FoodDetail struct {
	FoodSummary
	BaseGramWeight float64   `json:"baseGramWeight"`
	Fiber          float64   `json:"fiber"`
	Sugar          float64   `json:"sugar"`
	SugarAlcohols  float64   `json:"sugarAlcohols"`
	Portions       []Portion `json:"portions"`
}

// DefaultPortion returns the portion marked default and its index.
// When none is marked the first portion is returned; ok is false only for an empty list.
func (d *FoodDetail) DefaultPortion() (p Portion, index int, ok bool) {
	if d == nil || len(d.Portions) == 0 {
		return Portion{}, -1, false
	}
	for i, portion := range d.Portions {
		if portion.IsDefault {
			return portion, i, true
		}
	}
	return d.Portions[0], 0, true
}

// PortionIndex returns the index of p within the detail's portions, or -1
func (d *FoodDetail) PortionIndex(p Portion) int {
	if d == nil {
		return -1
	}
	for i, portion := range d.Portions {
		if portion == p {
			return i
		}
	}
	return -1
}

// ScaledNutrients is the nutrient snapshot for a chosen amount of a portion
type ScaledNutrients struct {
	Protein          float64 `json:"protein"`
	Fat              float64 `json:"fat"`
	Carbs            float64 `json:"carbs"`
	Calories         float64 `json:"calories"`
	Fiber            float64 `json:"fiber"`
	Sugar            float64 `json:"sugar"`
	SugarAlcohols    float64 `json:"sugarAlcohols"`
	NetCarbs         float64 `json:"netCarbs"`
	TotalGrams       float64 `json:"totalGrams"`
	Multiplier       float64 `json:"multiplier"`
	ServingSizeLabel string  `json:"servingSizeLabel"`

	// ZeroBase is set when the detail had no base gram weight and every nutrient was zeroed
	ZeroBase bool `json:"zeroBase,omitempty"`
}

// LoggedFoodEntry is a standalone nutrient snapshot stored in a daily log
type LoggedFoodEntry struct {
	ID               string    `json:"id"`
	FoodID           FoodID    `json:"foodId"`
	Name             string    `json:"name"`
	Brand            string    `json:"brand,omitempty"`
	Description      string    `json:"description,omitempty"`
	Source           string    `json:"source"`
	Protein          float64   `json:"protein"`
	Fat              float64   `json:"fat"`
	Carbs            float64   `json:"carbs"`
	Calories         float64   `json:"calories"`
	Fiber            float64   `json:"fiber"`
	Sugar            float64   `json:"sugar"`
	SugarAlcohols    float64   `json:"sugarAlcohols"`
	ServingSizeLabel string    `json:"servingSizeLabel"`
	BaseGramWeight   float64   `json:"baseGramWeight,omitempty"`
	Portions         []Portion `json:"portions,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
