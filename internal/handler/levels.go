package handler

import (
	"math"
	"net/http"

	"github.com/osse101/XPEngine_Go/internal/domain"
	"github.com/osse101/XPEngine_Go/internal/leveling"
	"github.com/osse101/XPEngine_Go/internal/logger"
)

// Level table defaults
const (
	DefaultTableFrom = 1
	DefaultTableSpan = 20
)

// RequiredXPResponse is returned by the required endpoint
type RequiredXPResponse struct {
	Level        int   `json:"level"`
	RequiredXP   int64 `json:"required_xp"`
	CumulativeXP int64 `json:"cumulative_xp"`
}

// LevelTableResponse wraps a threshold table
type LevelTableResponse struct {
	From     int                `json:"from"`
	To       int                `json:"to"`
	MaxLevel int                `json:"max_level"`
	Levels   []domain.Threshold `json:"levels"`
}

// LevelsHandler exposes the stateless leveling engine
type LevelsHandler struct {
	curve leveling.Curve
}

// NewLevelsHandler creates a handler bound to a curve
func NewLevelsHandler(curve leveling.Curve) *LevelsHandler {
	return &LevelsHandler{curve: curve}
}

// HandleRequired returns the XP needed to advance from a level
// @Summary Required XP for a level
// @Tags levels
// @Produce json
// @Param level query int true "Level (>= 1)"
// @Success 200 {object} RequiredXPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/levels/required [get]
func (h *LevelsHandler) HandleRequired(w http.ResponseWriter, r *http.Request) {
	level, ok := h.levelParam(w, r, "level")
	if !ok {
		return
	}

	row, err := h.curve.Threshold(level)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, RequiredXPResponse{
		Level:        row.Level,
		RequiredXP:   row.RequiredXP,
		CumulativeXP: row.CumulativeXP,
	})
}

// HandleResolve maps a total XP to a level
// @Summary Resolve level from XP
// @Tags levels
// @Produce json
// @Param xp query int true "Total XP (>= 0)"
// @Success 200 {object} domain.Resolution
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/levels/resolve [get]
func (h *LevelsHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	xp, ok := GetIntQueryParam(r, w, "xp")
	if !ok {
		return
	}

	res, err := h.curve.LevelFromXP(xp)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if res.Capped {
		logger.FromContext(r.Context()).Debug("Resolved XP beyond max level", "xp", xp, "max_level", h.curve.MaxLevel())
	}

	respondJSON(w, http.StatusOK, res)
}

// HandleProgress returns the progress snapshot for a total XP
// @Summary Progress snapshot
// @Tags levels
// @Produce json
// @Param xp query int true "Total XP (>= 0)"
// @Success 200 {object} domain.Snapshot
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/levels/progress [get]
func (h *LevelsHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	xp, ok := GetIntQueryParam(r, w, "xp")
	if !ok {
		return
	}

	snap, err := h.curve.Progress(xp)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build progress snapshot", "error", err, "xp", xp)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// HandleMilestone classifies a level
// @Summary Milestone classification
// @Tags levels
// @Produce json
// @Param level query int true "Level"
// @Success 200 {object} domain.Milestone
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/levels/milestone [get]
func (h *LevelsHandler) HandleMilestone(w http.ResponseWriter, r *http.Request) {
	level, ok := h.levelParam(w, r, "level")
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, leveling.ClassifyMilestone(level))
}

// HandleTable lists thresholds for a level range
// @Summary Level threshold table
// @Tags levels
// @Produce json
// @Param from query int false "First level" default(1)
// @Param to query int false "Last level" default(20)
// @Success 200 {object} LevelTableResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/levels/table [get]
func (h *LevelsHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	from, ok := GetOptionalIntQueryParam(r, w, "from", DefaultTableFrom)
	if !ok {
		return
	}
	to, ok := GetOptionalIntQueryParam(r, w, "to", from+DefaultTableSpan-1)
	if !ok {
		return
	}
	if from > math.MaxInt32 || to > math.MaxInt32 {
		respondServiceError(w, domain.ErrLevelCapExceeded)
		return
	}

	rows, err := h.curve.Thresholds(int(from), int(to))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LevelTableResponse{
		From:     int(from),
		To:       int(to),
		MaxLevel: h.curve.MaxLevel(),
		Levels:   rows,
	})
}

// levelParam parses a required level query parameter; levels start at 1
func (h *LevelsHandler) levelParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, ok := GetIntQueryParam(r, w, name)
	if !ok {
		return 0, false
	}
	if value < leveling.MinLevel {
		respondServiceError(w, domain.ErrInvalidInput)
		return 0, false
	}
	if value > math.MaxInt32 {
		respondServiceError(w, domain.ErrLevelCapExceeded)
		return 0, false
	}
	return int(value), true
}
