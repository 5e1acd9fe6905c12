package usda

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/macrolens/foodlog/internal/domain"
)

// USDA Nutrient IDs
const (
	NutrientIDProtein       = 1003 // Protein (g)
	NutrientIDTotalFat      = 1004 // Total lipid (fat) (g)
	NutrientIDCarbohydrate  = 1005 // Carbohydrate, by difference (g)
	NutrientIDEnergy        = 1008 // Energy (kcal)
	NutrientIDEnergyAtwater = 2047 // Energy, Atwater General Factors (kcal)
	NutrientIDFiber         = 1079 // Fiber, total dietary (g)
	NutrientIDSugarsNLEA    = 2000 // Total Sugars (g)
	NutrientIDSugarsTotal   = 1063 // Sugars, Total (g), older records
	NutrientIDSugarAlcohols = 1086 // Total sugar alcohols (g)
)

const (
	defaultBaseGramWeight   = 100.0
	defaultServingSizeLabel = "100g"
	fallbackPortionLabel    = "Serving"
	undeterminedMeasureUnit = "undetermined"
)

// medoumRegex matches a recurring USDA typo of "medium"
var medoumRegex = regexp.MustCompile(`(?i)medoum`)

// defaultPrecedence lists portion kinds in the order they win default selection.
// A declared serving beats the 100 g base.
var defaultPrecedence = []domain.PortionKind{
	domain.PortionKindServing,
	domain.PortionKindBase,
}

// NormalizeSummary converts a raw USDA record (search or detail shape) to a FoodSummary.
// Missing data becomes zero; it never fails.
func NormalizeSummary(food *domain.USDAFood) domain.FoodSummary {
	if food == nil {
		return domain.FoodSummary{
			Source:           domain.SourceUSDA,
			ServingSizeLabel: defaultServingSizeLabel,
		}
	}

	brand := food.BrandOwner
	if brand == "" {
		brand = food.BrandName
	}

	return domain.FoodSummary{
		ID:               domain.UpstreamID(food.FdcID),
		Name:             food.Description,
		Brand:            brand,
		Source:           domain.SourceUSDA,
		Protein:          nutrient(food.Nutrients, NutrientIDProtein),
		Fat:              nutrient(food.Nutrients, NutrientIDTotalFat),
		Carbs:            nutrient(food.Nutrients, NutrientIDCarbohydrate),
		Calories:         nutrient(food.Nutrients, NutrientIDEnergy, NutrientIDEnergyAtwater),
		ServingSizeLabel: servingSizeLabel(food),
	}
}

// NormalizeDetail converts a raw USDA detail record to a FoodDetail with its portion options
func NormalizeDetail(food *domain.USDAFood) domain.FoodDetail {
	detail := domain.FoodDetail{
		FoodSummary:    NormalizeSummary(food),
		BaseGramWeight: baseGramWeight(food),
		Portions:       buildPortions(food),
	}
	if food == nil {
		return detail
	}

	detail.Fiber = nutrient(food.Nutrients, NutrientIDFiber)
	detail.Sugar = nutrient(food.Nutrients, NutrientIDSugarsNLEA, NutrientIDSugarsTotal)
	detail.SugarAlcohols = nutrient(food.Nutrients, NutrientIDSugarAlcohols)
	return detail
}

// FindNutrientValue finds a specific nutrient value by ID.
// The first entry whose id matches wins, whichever shape it uses; 0 when absent.
func FindNutrientValue(nutrients []domain.USDANutrient, nutrientID int) float64 {
	for _, n := range nutrients {
		if n.Code() == nutrientID {
			return n.Quantity()
		}
	}
	return 0.0
}

// nutrient returns the first non-zero value among ids, tried in order.
// Negative and non-finite values count as missing.
func nutrient(nutrients []domain.USDANutrient, ids ...int) float64 {
	for _, id := range ids {
		if v := sanitize(FindNutrientValue(nutrients, id)); v != 0 {
			return v
		}
	}
	return 0
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// baseGramWeight is the gram weight the record's nutrients are reported per.
// Branded foods report per declared serving, generic foods per 100 g.
func baseGramWeight(food *domain.USDAFood) float64 {
	if food.HasServingSize() && (food.ServingSizeUnit == "g" || food.ServingSizeUnit == "ml") {
		return food.ServingSize
	}
	return defaultBaseGramWeight
}

func servingSizeLabel(food *domain.USDAFood) string {
	if !food.HasServingSize() {
		return defaultServingSizeLabel
	}
	return strings.TrimSpace(formatNumber(food.ServingSize) + " " + food.ServingSizeUnit)
}

func buildPortions(food *domain.USDAFood) []domain.Portion {
	var measured []domain.USDAFoodPortion
	if food != nil {
		measured = food.FoodPortions
	}

	portions := make([]domain.Portion, 0, 3+len(measured))
	portions = append(portions,
		domain.Portion{Label: "100g", GramWeight: 100, Kind: domain.PortionKindBase},
		domain.Portion{Label: "1g", GramWeight: 1, Kind: domain.PortionKindGram},
	)

	if food.HasServingSize() {
		portions = append(portions, domain.Portion{
			Label:      fmt.Sprintf("1 Serving (%s)", servingSizeLabel(food)),
			GramWeight: food.ServingSize,
			Kind:       domain.PortionKindServing,
		})
	}

	for _, p := range measured {
		portions = append(portions, domain.Portion{
			Label:      PortionLabel(p),
			GramWeight: p.GramWeight,
			Kind:       domain.PortionKindMeasure,
		})
	}

	markDefault(portions)
	return portions
}

// markDefault flags exactly one portion as default following defaultPrecedence
func markDefault(portions []domain.Portion) {
	for _, kind := range defaultPrecedence {
		for i := range portions {
			if portions[i].Kind == kind {
				portions[i].IsDefault = true
				return
			}
		}
	}
}

// PortionLabel builds the display label of a survey / measured portion.
//
// Free-text dissemination text wins, then "{amount} {unit}", then the portion
// description, the modifier and finally "Serving". A modifier not already in the
// label is appended in parentheses. "Undetermined" units count as no unit and the
// "medoum" typo is corrected everywhere.
func PortionLabel(p domain.USDAFoodPortion) string {
	unit := ""
	if p.MeasureUnit != nil {
		unit = strings.TrimSpace(p.MeasureUnit.Name)
	}
	if strings.EqualFold(unit, undeterminedMeasureUnit) {
		unit = ""
	}
	unit = fixTypos(unit)
	description := fixTypos(strings.TrimSpace(p.PortionDescription))
	modifier := fixTypos(strings.TrimSpace(p.Modifier))
	text := fixTypos(strings.TrimSpace(p.DisseminationText))

	amount := p.Amount
	if amount <= 0 {
		amount = 1
	}

	var label string
	switch {
	case text != "":
		label = text
	case unit != "":
		label = formatNumber(amount) + " " + unit
	case description != "":
		label = description
	case modifier != "":
		label = modifier
	default:
		label = fallbackPortionLabel
	}

	if modifier != "" && !strings.Contains(label, modifier) {
		label = label + " (" + modifier + ")"
	}
	return label
}

func fixTypos(s string) string {
	return medoumRegex.ReplaceAllString(s, "medium")
}

// formatNumber renders v with the shortest exact representation ("30", "28.35")
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
