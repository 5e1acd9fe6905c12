package domain

// USDAFood is a raw food record from the USDA FoodData Central API.
// Search results and detail responses share this shape; fields absent from one variant stay zero.
type USDAFood struct {
	FdcID           int64             `json:"fdcId"`
	Description     string            `json:"description"`
	DataType        string            `json:"dataType,omitempty"`
	FoodClass       string            `json:"foodClass,omitempty"`
	BrandOwner      string            `json:"brandOwner,omitempty"`
	BrandName       string            `json:"brandName,omitempty"`
	ServingSize     float64           `json:"servingSize,omitempty"`
	ServingSizeUnit string            `json:"servingSizeUnit,omitempty"`
	Nutrients       []USDANutrient    `json:"foodNutrients"`
	FoodPortions    []USDAFoodPortion `json:"foodPortions,omitempty"`
}

// HasServingSize reports whether the record declares a serving size
func (f *USDAFood) HasServingSize() bool {
	return f != nil && f.ServingSize > 0
}

// USDANutrient is a single nutrient entry.
// Search results use nutrientId/value, detail responses use nutrient.id/amount.
type USDANutrient struct {
	NutrientID     int              `json:"nutrientId,omitempty"`
	NutrientName   string           `json:"nutrientName,omitempty"`
	NutrientNumber string           `json:"nutrientNumber,omitempty"`
	UnitName       string           `json:"unitName,omitempty"`
	Value          *float64         `json:"value,omitempty"`
	Nutrient       *USDANutrientRef `json:"nutrient,omitempty"`
	Amount         *float64         `json:"amount,omitempty"`
}

// USDANutrientRef is the nested nutrient descriptor of a detail response
type USDANutrientRef struct {
	ID       int    `json:"id"`
	Number   string `json:"number,omitempty"`
	Name     string `json:"name,omitempty"`
	UnitName string `json:"unitName,omitempty"`
}

// Code returns the nutrient id from whichever shape the entry uses, or 0
func (n USDANutrient) Code() int {
	if n.NutrientID != 0 {
		return n.NutrientID
	}
	if n.Nutrient != nil {
		return n.Nutrient.ID
	}
	return 0
}

// Quantity returns the reported value from whichever shape the entry uses, or 0
func (n USDANutrient) Quantity() float64 {
	if n.Value != nil {
		return *n.Value
	}
	if n.Amount != nil {
		return *n.Amount
	}
	return 0
}

// USDAFoodPortion is a survey / measured portion of a detail response
type USDAFoodPortion struct {
	ID                 int              `json:"id,omitempty"`
	Amount             float64          `json:"amount,omitempty"`
	GramWeight         float64          `json:"gramWeight"`
	PortionDescription string           `json:"portionDescription,omitempty"`
	Modifier           string           `json:"modifier,omitempty"`
	DisseminationText  string           `json:"disseminationText,omitempty"`
	SequenceNumber     int              `json:"sequenceNumber,omitempty"`
	MeasureUnit        *USDAMeasureUnit `json:"measureUnit,omitempty"`
}

// USDAMeasureUnit names the household unit of a portion
type USDAMeasureUnit struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}
