package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/macrolens/foodlog/internal/domain"
	"github.com/macrolens/foodlog/internal/platform/logger"
	"github.com/macrolens/foodlog/internal/usecase"
)

// todayAlias may be used in place of a date in log routes
const todayAlias = "today"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	foods   *usecase.FoodService
	scaler  *usecase.Scaler
	tracker *usecase.TrackerService
	presets *usecase.PresetService
	log     *logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	foods *usecase.FoodService,
	scaler *usecase.Scaler,
	tracker *usecase.TrackerService,
	presets *usecase.PresetService,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		foods:   foods,
		scaler:  scaler,
		tracker: tracker,
		presets: presets,
		log:     log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodlog",
		"version": "1.0.0",
	})
}

// SearchFoods handles GET /api/v1/foods/search?q=
func (h *Handler) SearchFoods(c *gin.Context) {
	results, err := h.foods.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetFood handles GET /api/v1/foods/:fdcId
func (h *Handler) GetFood(c *gin.Context) {
	fdcID, ok := parseFdcID(c)
	if !ok {
		return
	}
	detail, err := h.foods.GetFoodDetail(c.Request.Context(), fdcID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ScaleRequest selects a portion and amount. A missing portionIndex means the
// default portion; a missing amount means 1.
type ScaleRequest struct {
	PortionIndex *int     `json:"portionIndex"`
	Amount       *float64 `json:"amount"`
}

// ScaleFood handles POST /api/v1/foods/:fdcId/scale
func (h *Handler) ScaleFood(c *gin.Context) {
	fdcID, ok := parseFdcID(c)
	if !ok {
		return
	}
	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}

	detail, err := h.foods.GetFoodDetail(c.Request.Context(), fdcID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	_, index, _ := detail.DefaultPortion()
	if req.PortionIndex != nil {
		index = *req.PortionIndex
	}

	scaled, err := h.scaler.ScaleByIndex(detail, index, amountOrOne(req.Amount))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scaled)
}

// GetDailyLog handles GET /api/v1/logs/:date
func (h *Handler) GetDailyLog(c *gin.Context) {
	log, err := h.tracker.DailyLog(c.Request.Context(), logDate(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// AddEntryRequest logs either a USDA food (fdcId, portionIndex, amount) or a preset (presetId)
type AddEntryRequest struct {
	FdcID        int64    `json:"fdcId"`
	PortionIndex *int     `json:"portionIndex"`
	Amount       *float64 `json:"amount"`
	PresetID     string   `json:"presetId"`
}

// AddLogEntry handles POST /api/v1/logs/:date/entries
func (h *Handler) AddLogEntry(c *gin.Context) {
	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}

	ctx := c.Request.Context()
	date := logDate(c)

	var (
		entry *domain.LoggedFoodEntry
		err   error
	)
	switch {
	case req.PresetID != "" && req.FdcID != 0:
		c.JSON(http.StatusBadRequest, errorBody("set either fdcId or presetId, not both"))
		return
	case req.PresetID != "":
		entry, err = h.tracker.LogPreset(ctx, date, req.PresetID)
	case req.FdcID > 0:
		index := usecase.DefaultPortionIndex
		if req.PortionIndex != nil {
			index = *req.PortionIndex
		}
		entry, err = h.tracker.LogFood(ctx, date, req.FdcID, index, amountOrOne(req.Amount))
	default:
		c.JSON(http.StatusBadRequest, errorBody("fdcId or presetId is required"))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteLogEntry handles DELETE /api/v1/logs/:date/entries/:id
func (h *Handler) DeleteLogEntry(c *gin.Context) {
	if err := h.tracker.RemoveEntry(c.Request.Context(), logDate(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetGoals handles GET /api/v1/goals
func (h *Handler) GetGoals(c *gin.Context) {
	goals, err := h.tracker.Goals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// UpdateGoals handles PUT /api/v1/goals with a partial goals document
func (h *Handler) UpdateGoals(c *gin.Context) {
	var patch domain.GoalsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}
	goals, err := h.tracker.UpdateGoals(c.Request.Context(), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// ListPresets handles GET /api/v1/presets
func (h *Handler) ListPresets(c *gin.Context) {
	presets, err := h.presets.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// CreatePreset handles POST /api/v1/presets
func (h *Handler) CreatePreset(c *gin.Context) {
	var input domain.PresetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}
	p, err := h.presets.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePreset handles PUT /api/v1/presets/:id
func (h *Handler) UpdatePreset(c *gin.Context) {
	var input domain.PresetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}
	p, err := h.presets.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePreset handles DELETE /api/v1/presets/:id
func (h *Handler) DeletePreset(c *gin.Context) {
	if err := h.presets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, errorBody("internal server error"))
		return
	}
	c.JSON(status, errorBody(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidPortion),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrFoodUnavailable),
		errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

func parseFdcID(c *gin.Context) (int64, bool) {
	fdcID, err := strconv.ParseInt(c.Param("fdcId"), 10, 64)
	if err != nil || fdcID <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("fdcId must be a positive integer"))
		return 0, false
	}
	return fdcID, true
}

// logDate reads the :date parameter; "today" resolves to the current date
func logDate(c *gin.Context) string {
	date := c.Param("date")
	if date == todayAlias {
		return ""
	}
	return date
}

func amountOrOne(amount *float64) float64 {
	if amount == nil {
		return 1
	}
	return *amount
}
