package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/XPEngine_Go/internal/domain"
	"github.com/osse101/XPEngine_Go/internal/leveling"
)

func serveLevels(t *testing.T, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLevelsHandler_HandleRequired(t *testing.T) {
	h := NewLevelsHandler(leveling.DefaultCurve())

	tests := []struct {
		name         string
		query        string
		wantStatus   int
		wantRequired int64
		wantCumul    int64
	}{
		{"level 1", "?level=1", http.StatusOK, 10, 0},
		{"level 2", "?level=2", http.StatusOK, 22, 10},
		{"level 10", "?level=10", http.StatusOK, 140, 564},
		{"level 0", "?level=0", http.StatusBadRequest, 0, 0},
		{"negative", "?level=-3", http.StatusBadRequest, 0, 0},
		{"not a number", "?level=abc", http.StatusBadRequest, 0, 0},
		{"missing", "", http.StatusBadRequest, 0, 0},
		{"beyond max", "?level=20000", http.StatusUnprocessableEntity, 0, 0},
		{"at max", "?level=10000", http.StatusOK, 40100000, 133813284000},
		{"one past max", "?level=10001", http.StatusUnprocessableEntity, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveLevels(t, h.HandleRequired, "/levels/required"+tt.query)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp RequiredXPResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantRequired, resp.RequiredXP)
			assert.Equal(t, tt.wantCumul, resp.CumulativeXP)
		})
	}
}

func TestLevelsHandler_HandleResolve(t *testing.T) {
	h := NewLevelsHandler(leveling.DefaultCurve())

	t.Run("zero xp is level 1", func(t *testing.T) {
		w := serveLevels(t, h.HandleResolve, "/levels/resolve?xp=0")
		require.Equal(t, http.StatusOK, w.Code)

		var res domain.Resolution
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Level)
		assert.False(t, res.Capped)
	})

	t.Run("exact threshold advances", func(t *testing.T) {
		w := serveLevels(t, h.HandleResolve, "/levels/resolve?xp=10")
		var res domain.Resolution
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 2, res.Level)
	})

	t.Run("capped on a small curve", func(t *testing.T) {
		curve, err := leveling.NewCurve(5)
		require.NoError(t, err)
		small := NewLevelsHandler(curve)

		w := serveLevels(t, small.HandleResolve, "/levels/resolve?xp=1000000")
		require.Equal(t, http.StatusOK, w.Code)

		var res domain.Resolution
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 5, res.Level)
		assert.True(t, res.Capped)
	})

	t.Run("negative xp rejected", func(t *testing.T) {
		w := serveLevels(t, h.HandleResolve, "/levels/resolve?xp=-1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLevelsHandler_HandleProgress(t *testing.T) {
	h := NewLevelsHandler(leveling.DefaultCurve())

	w := serveLevels(t, h.HandleProgress, "/levels/progress?xp=21")
	require.Equal(t, http.StatusOK, w.Code)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, domain.Snapshot{
		TotalXP:                21,
		CurrentLevel:           2,
		XPIntoCurrentLevel:     11,
		XPRequiredForNextLevel: 22,
		ProgressPercentage:     50,
	}, snap)
}

func TestLevelsHandler_HandleMilestone(t *testing.T) {
	h := NewLevelsHandler(leveling.DefaultCurve())

	tests := []struct {
		query string
		want  domain.Milestone
	}{
		{"?level=10", domain.Milestone{Level: 10, IsMilestone: true, Tier: "minor"}},
		{"?level=50", domain.Milestone{Level: 50, IsMilestone: true, Tier: "major"}},
		{"?level=100", domain.Milestone{Level: 100, IsMilestone: true, Tier: "major"}},
		{"?level=7", domain.Milestone{Level: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serveLevels(t, h.HandleMilestone, "/levels/milestone"+tt.query)
			require.Equal(t, http.StatusOK, w.Code)

			var got domain.Milestone
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelsHandler_HandleTable(t *testing.T) {
	h := NewLevelsHandler(leveling.DefaultCurve())

	t.Run("defaults to the first twenty levels", func(t *testing.T) {
		w := serveLevels(t, h.HandleTable, "/levels/table")
		require.Equal(t, http.StatusOK, w.Code)

		var resp LevelTableResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.From)
		assert.Equal(t, 20, resp.To)
		require.Len(t, resp.Levels, 20)
		assert.Equal(t, int64(10), resp.Levels[0].RequiredXP)
		assert.Equal(t, int64(564), resp.Levels[9].CumulativeXP)
	})

	t.Run("explicit range", func(t *testing.T) {
		w := serveLevels(t, h.HandleTable, "/levels/table?from=9&to=11")
		require.Equal(t, http.StatusOK, w.Code)

		var resp LevelTableResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Levels, 3)
		assert.True(t, resp.Levels[1].Milestone.IsMilestone)
	})

	t.Run("inverted range", func(t *testing.T) {
		w := serveLevels(t, h.HandleTable, "/levels/table?from=10&to=5")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too many rows", func(t *testing.T) {
		w := serveLevels(t, h.HandleTable, "/levels/table?from=1&to=1000")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("beyond max level", func(t *testing.T) {
		w := serveLevels(t, h.HandleTable, "/levels/table?from=9990&to=10010")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
