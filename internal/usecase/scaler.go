package usecase

import (
	"fmt"
	"math"
	"strconv"

	"github.com/macrolens/foodlog/internal/domain"
	"github.com/macrolens/foodlog/internal/platform/logger"
)

// Scaler converts a food detail's base nutrients into the amounts for a chosen portion
type Scaler struct {
	log *logger.Logger
}

// NewScaler creates a scaler. A nil logger discards warnings.
func NewScaler(log *logger.Logger) *Scaler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scaler{log: log}
}

// Scale returns the nutrients of amount units of portion.
//
// The multiplier is amount * portion.GramWeight / detail.BaseGramWeight and every
// nutrient is rounded to the nearest whole number. A detail without a usable base
// gram weight scales to zero and is flagged with ZeroBase.
func (s *Scaler) Scale(detail *domain.FoodDetail, portion domain.Portion, amount float64) (*domain.ScaledNutrients, error) {
	if detail == nil || detail.PortionIndex(portion) < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPortion, portion.Label)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, amount)
	}

	totalGrams := amount * portion.GramWeight
	if math.IsNaN(totalGrams) || math.IsInf(totalGrams, 0) {
		return nil, fmt.Errorf("%w: %v x %v g overflows", domain.ErrInvalidAmount, amount, portion.GramWeight)
	}

	scaled := &domain.ScaledNutrients{
		TotalGrams:       totalGrams,
		ServingSizeLabel: strconv.FormatFloat(amount, 'f', -1, 64) + " " + portion.Label,
	}

	base := detail.BaseGramWeight
	if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		s.log.Warn("food has no base gram weight, scaling to zero",
			"food_id", detail.ID.String(),
			"base_gram_weight", base,
		)
		scaled.ZeroBase = true
		return scaled, nil
	}

	multiplier := totalGrams / base
	scaled.Multiplier = multiplier
	scaled.Protein = scaleValue(detail.Protein, multiplier)
	scaled.Fat = scaleValue(detail.Fat, multiplier)
	scaled.Carbs = scaleValue(detail.Carbs, multiplier)
	scaled.Calories = scaleValue(detail.Calories, multiplier)
	scaled.Fiber = scaleValue(detail.Fiber, multiplier)
	scaled.Sugar = scaleValue(detail.Sugar, multiplier)
	scaled.SugarAlcohols = scaleValue(detail.SugarAlcohols, multiplier)
	scaled.NetCarbs = NetCarbs(scaled.Carbs, scaled.Fiber, scaled.SugarAlcohols)

	return scaled, nil
}

// ScaleByIndex scales the portion at index within detail.Portions
func (s *Scaler) ScaleByIndex(detail *domain.FoodDetail, index int, amount float64) (*domain.ScaledNutrients, error) {
	if detail == nil || index < 0 || index >= len(detail.Portions) {
		return nil, fmt.Errorf("%w: index %d", domain.ErrInvalidPortion, index)
	}
	return s.Scale(detail, detail.Portions[index], amount)
}

func scaleValue(v, multiplier float64) float64 {
	out := math.Round(v * multiplier)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// NetCarbs is carbs minus fiber and sugar alcohols, floored at zero
func NetCarbs(carbs, fiber, sugarAlcohols float64) float64 {
	return math.Max(0, carbs-fiber-sugarAlcohols)
}

// ToLoggedEntry builds the log record for a scaled food. ID and CreatedAt are left to the store.
func ToLoggedEntry(detail *domain.FoodDetail, scaled *domain.ScaledNutrients) domain.LoggedFoodEntry {
	portions := make([]domain.Portion, len(detail.Portions))
	copy(portions, detail.Portions)

	return domain.LoggedFoodEntry{
		FoodID:           detail.ID,
		Name:             detail.Name,
		Brand:            detail.Brand,
		Description:      detail.Description,
		Source:           detail.Source,
		Protein:          scaled.Protein,
		Fat:              scaled.Fat,
		Carbs:            scaled.Carbs,
		Calories:         scaled.Calories,
		Fiber:            scaled.Fiber,
		Sugar:            scaled.Sugar,
		SugarAlcohols:    scaled.SugarAlcohols,
		ServingSizeLabel: scaled.ServingSizeLabel,
		BaseGramWeight:   detail.BaseGramWeight,
		Portions:         portions,
	}
}
