package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/macrolens/foodlog/internal/domain"
	"github.com/macrolens/foodlog/internal/platform/logger"
)

const (
	// DateLayout is the format of log dates
	DateLayout = "2006-01-02"

	// DefaultPortionIndex asks LogFood to use the food's default portion
	DefaultPortionIndex = -1
)

// FoodDetailSource fetches normalized food details
type FoodDetailSource interface {
	GetFoodDetail(ctx context.Context, fdcID int64) (*domain.FoodDetail, error)
}

// PresetSource looks presets up by id
type PresetSource interface {
	Get(ctx context.Context, id string) (*domain.Preset, error)
}

// TrackerService records eaten foods per day and reports progress against goals
type TrackerService struct {
	store        domain.LogStore
	foods        FoodDetailSource
	presets      PresetSource
	scaler       *Scaler
	defaultGoals domain.Goals
	now          func() time.Time
	log          *logger.Logger
}

// NewTrackerService creates a tracker. defaultGoals apply until goals are saved.
func NewTrackerService(
	store domain.LogStore,
	foods FoodDetailSource,
	presets PresetSource,
	scaler *Scaler,
	defaultGoals domain.Goals,
	log *logger.Logger,
) *TrackerService {
	if log == nil {
		log = logger.Nop()
	}
	if scaler == nil {
		scaler = NewScaler(log)
	}
	return &TrackerService{
		store:        store,
		foods:        foods,
		presets:      presets,
		scaler:       scaler,
		defaultGoals: defaultGoals,
		now:          time.Now,
		log:          log.With("service", "TrackerService"),
	}
}

// ResolveDate validates a YYYY-MM-DD date; empty means today
func (s *TrackerService) ResolveDate(date string) (string, error) {
	if date == "" {
		return s.now().Format(DateLayout), nil
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil || t.Format(DateLayout) != date {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}
	return date, nil
}

// LogFood scales amount units of the food's portion at portionIndex and appends it to date.
// DefaultPortionIndex selects the portion marked default.
func (s *TrackerService) LogFood(ctx context.Context, date string, fdcID int64, portionIndex int, amount float64) (*domain.LoggedFoodEntry, error) {
	day, err := s.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	detail, err := s.foods.GetFoodDetail(ctx, fdcID)
	if err != nil {
		return nil, err
	}

	if portionIndex == DefaultPortionIndex {
		_, portionIndex, _ = detail.DefaultPortion()
	}

	scaled, err := s.scaler.ScaleByIndex(detail, portionIndex, amount)
	if err != nil {
		return nil, err
	}

	entry := ToLoggedEntry(detail, scaled)
	return s.append(ctx, day, entry)
}

// LogPreset appends a preset to date as-is
func (s *TrackerService) LogPreset(ctx context.Context, date, presetID string) (*domain.LoggedFoodEntry, error) {
	day, err := s.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	p, err := s.presets.Get(ctx, presetID)
	if err != nil {
		return nil, err
	}

	entry := domain.LoggedFoodEntry{
		FoodID:           domain.PresetFoodID(p.ID),
		Name:             p.Name,
		Description:      p.Description,
		Source:           domain.SourcePreset,
		Protein:          p.Protein,
		Fat:              p.Fat,
		Carbs:            p.Carbs,
		Calories:         p.Calories,
		ServingSizeLabel: p.Description,
	}
	return s.append(ctx, day, entry)
}

func (s *TrackerService) append(ctx context.Context, day string, entry domain.LoggedFoodEntry) (*domain.LoggedFoodEntry, error) {
	sanitizeEntry(&entry)
	if err := s.store.AppendEntry(ctx, day, &entry); err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}
	s.log.Debug("food logged", "date", day, "entry_id", entry.ID, "food_id", entry.FoodID.String())
	return &entry, nil
}

// RemoveEntry deletes an entry; domain.ErrNotFound when absent
func (s *TrackerService) RemoveEntry(ctx context.Context, date, id string) error {
	day, err := s.ResolveDate(date)
	if err != nil {
		return err
	}
	return s.store.DeleteEntry(ctx, day, id)
}

// Entries returns the day's entries in creation order
func (s *TrackerService) Entries(ctx context.Context, date string) ([]domain.LoggedFoodEntry, error) {
	day, err := s.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, day)
}

// DailyStats sums the day's nutrients
func (s *TrackerService) DailyStats(ctx context.Context, date string) (*domain.DailyStats, error) {
	entries, err := s.Entries(ctx, date)
	if err != nil {
		return nil, err
	}
	stats := Summarize(entries)
	return &stats, nil
}

// Remaining reports what is left of the macro goals for the day
func (s *TrackerService) Remaining(ctx context.Context, date string) (*domain.Remaining, error) {
	log, err := s.DailyLog(ctx, date)
	if err != nil {
		return nil, err
	}
	return &log.Remaining, nil
}

// Progress reports the percentage of each goal consumed on the day
func (s *TrackerService) Progress(ctx context.Context, date string) (*domain.Progress, error) {
	log, err := s.DailyLog(ctx, date)
	if err != nil {
		return nil, err
	}
	return &log.Progress, nil
}

// DailyLog assembles entries, stats, goals, remaining and progress for a day
func (s *TrackerService) DailyLog(ctx context.Context, date string) (*domain.DailyLog, error) {
	day, err := s.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, day)
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}

	stats := Summarize(entries)
	return &domain.DailyLog{
		Date:      day,
		Entries:   entries,
		Stats:     stats,
		Goals:     *goals,
		Remaining: RemainingFor(*goals, stats),
		Progress:  ProgressFor(*goals, stats),
	}, nil
}

// Goals returns the saved goals, or the defaults when none were saved.
// Unusable stored values fall back to the matching default.
func (s *TrackerService) Goals(ctx context.Context) (*domain.Goals, error) {
	stored, err := s.store.GetGoals(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		g := s.defaultGoals
		return &g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goals: %w", err)
	}

	d := s.defaultGoals
	g := domain.Goals{
		Protein:  goalOr(stored.Protein, d.Protein),
		Fat:      goalOr(stored.Fat, d.Fat),
		Carbs:    goalOr(stored.Carbs, d.Carbs),
		Fiber:    goalOr(stored.Fiber, d.Fiber),
		Sugar:    goalOr(stored.Sugar, d.Sugar),
		Calories: goalOr(stored.Calories, d.Calories),
	}
	return &g, nil
}

// UpdateGoals applies the non-nil fields of patch and saves the result
func (s *TrackerService) UpdateGoals(ctx context.Context, patch domain.GoalsPatch) (*domain.Goals, error) {
	current, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"protein", patch.Protein, &current.Protein},
		{"fat", patch.Fat, &current.Fat},
		{"carbs", patch.Carbs, &current.Carbs},
		{"fiber", patch.Fiber, &current.Fiber},
		{"sugar", patch.Sugar, &current.Sugar},
		{"calories", patch.Calories, &current.Calories},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		v := *f.src
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: %s goal must be a non-negative number", domain.ErrInvalidRequest, f.name)
		}
		*f.dst = v
	}

	if err := s.store.SaveGoals(ctx, current); err != nil {
		return nil, fmt.Errorf("save goals: %w", err)
	}
	s.log.Info("goals updated", "calories", current.Calories, "protein", current.Protein)
	return current, nil
}

func goalOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fallback
	}
	return v
}

// Summarize sums the nutrients of entries
func Summarize(entries []domain.LoggedFoodEntry) domain.DailyStats {
	var st domain.DailyStats
	for _, e := range entries {
		st.Protein += e.Protein
		st.Fat += e.Fat
		st.Carbs += e.Carbs
		st.Fiber += e.Fiber
		st.Sugar += e.Sugar
		st.SugarAlcohols += e.SugarAlcohols
		st.Calories += e.Calories
	}
	st.NetCarbs = NetCarbs(st.Carbs, st.Fiber, st.SugarAlcohols)
	return st
}

// RemainingFor is goals minus consumed; negative once a goal is exceeded
func RemainingFor(goals domain.Goals, stats domain.DailyStats) domain.Remaining {
	return domain.Remaining{
		Protein:  goals.Protein - stats.Protein,
		Fat:      goals.Fat - stats.Fat,
		Carbs:    goals.Carbs - stats.Carbs,
		Calories: goals.Calories - stats.Calories,
	}
}

// ProgressFor is consumed as a whole-number percentage of each goal
func ProgressFor(goals domain.Goals, stats domain.DailyStats) domain.Progress {
	return domain.Progress{
		Protein:  percent(stats.Protein, goals.Protein),
		Fat:      percent(stats.Fat, goals.Fat),
		Carbs:    percent(stats.Carbs, goals.Carbs),
		Fiber:    percent(stats.Fiber, goals.Fiber),
		Sugar:    percent(stats.Sugar, goals.Sugar),
		Calories: percent(stats.Calories, goals.Calories),
		NetCarbs: percent(stats.NetCarbs, goals.Carbs),
	}
}

func percent(consumed, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Round(consumed / goal * 100)
}

func sanitizeEntry(e *domain.LoggedFoodEntry) {
	for _, v := range []*float64{
		&e.Protein, &e.Fat, &e.Carbs, &e.Calories,
		&e.Fiber, &e.Sugar, &e.SugarAlcohols,
	} {
		*v = nonNegative(*v)
	}
}
