package domain

// Goals are the user's daily nutrient targets
type Goals struct {
	Protein  float64 `json:"protein"`  // grams
	Fat      float64 `json:"fat"`      // grams
	Carbs    float64 `json:"carbs"`    // grams
	Fiber    float64 `json:"fiber"`    // grams
	Sugar    float64 `json:"sugar"`    // grams
	Calories float64 `json:"calories"` // kcal
}

// GoalsPatch is a partial goals update; nil fields are left unchanged
type GoalsPatch struct {
	Protein  *float64 `json:"protein,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
}

// DailyStats are the summed nutrients of one day's log
type DailyStats struct {
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbs         float64 `json:"carbs"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	SugarAlcohols float64 `json:"sugarAlcohols"`
	Calories      float64 `json:"calories"`
	NetCarbs      float64 `json:"netCarbs"`
}

// Remaining is what is left of the macro goals for a day. Values go negative once a goal is exceeded.
type Remaining struct {
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
}

// Progress holds whole-number percentages of each goal consumed
type Progress struct {
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Calories float64 `json:"calories"`
	NetCarbs float64 `json:"netCarbs"` // measured against the carbs goal
}

// DailyLog is the full view of one day
type DailyLog struct {
	Date      string            `json:"date"`
	Entries   []LoggedFoodEntry `json:"entries"`
	Stats     DailyStats        `json:"stats"`
	Goals     Goals             `json:"goals"`
	Remaining Remaining         `json:"remaining"`
	Progress  Progress          `json:"progress"`
}
