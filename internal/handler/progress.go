package handler

import (
	"net/http"

	"github.com/osse101/XPEngine_Go/internal/domain"
	"github.com/osse101/XPEngine_Go/internal/logger"
	"github.com/osse101/XPEngine_Go/internal/progress"
)

// Progress endpoint limits
const (
	DefaultLeaderboardLimit = 10
	DefaultHistoryLimit     = 20
	MaxListLimit            = 100
)

// RegisterUserRequest is the request body for registering a user
type RegisterUserRequest struct {
	UserID string `json:"user_id" validate:"required,max=128,user_id"`
}

// AwardXPRequest is the request body for awarding XP.
// Amount 0 applies the configured default for the source.
type AwardXPRequest struct {
	UserID   string            `json:"user_id" validate:"required,max=128,user_id"`
	Source   string            `json:"source" validate:"required,reward_source"`
	Amount   int64             `json:"amount" validate:"gte=0,max=1000000"`
	Metadata domain.XPMetadata `json:"metadata"`
}

// LeaderboardResponse wraps leaderboard entries
type LeaderboardResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// HistoryResponse wraps a user's recent XP events
type HistoryResponse struct {
	UserID string           `json:"user_id"`
	Events []domain.XPEvent `json:"events"`
}

// ProgressHandler exposes the progress service
type ProgressHandler struct {
	service progress.Service
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(service progress.Service) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// HandleRegister creates a progress record at 0 XP. Registering twice is not an error.
// @Summary Register user
// @Tags progress
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "User"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/progress/register [post]
func (h *ProgressHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
		return
	}

	view, err := h.service.EnsureUser(r.Context(), req.UserID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to register user", "error", err, "user_id", req.UserID)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgUserRegistered, Data: view})
}

// HandleGetProgress returns a user's level and progress
// @Summary Get user progress
// @Tags progress
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.ProgressView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/progress/user [get]
func (h *ProgressHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	view, err := h.service.GetProgress(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Failed to get progress", "error", err, "user_id", userID)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// HandleAwardXP grants XP for a reward event
// @Summary Award XP
// @Tags progress
// @Accept json
// @Produce json
// @Param request body AwardXPRequest true "Award"
// @Success 200 {object} domain.XPAwardResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/progress/award [post]
func (h *ProgressHandler) HandleAwardXP(w http.ResponseWriter, r *http.Request) {
	var req AwardXPRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Award XP"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	LogRequestFields(log, "user_id", req.UserID, "source", req.Source, "amount", req.Amount)

	result, err := h.service.AwardXP(r.Context(), req.UserID, domain.RewardSource(req.Source), req.Amount, req.Metadata)
	if err != nil {
		log.Warn("Failed to award XP", "error", err, "user_id", req.UserID, "source", req.Source)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleLeaderboard returns the top users by XP
// @Summary XP leaderboard
// @Tags progress
// @Produce json
// @Param limit query int false "Entries" default(10)
// @Success 200 {object} LeaderboardResponse
// @Router /api/v1/progress/leaderboard [get]
func (h *ProgressHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r, DefaultLeaderboardLimit)
	if !ok {
		return
	}

	entries, err := h.service.GetLeaderboard(r.Context(), limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get leaderboard", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgGetLeaderboardFailed)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}

	respondJSON(w, http.StatusOK, LeaderboardResponse{Entries: entries})
}

// HandleHistory returns a user's most recent XP events
// @Summary XP history
// @Tags progress
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Events" default(20)
// @Success 200 {object} HistoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/progress/history [get]
func (h *ProgressHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}
	limit, ok := h.limitParam(w, r, DefaultHistoryLimit)
	if !ok {
		return
	}

	events, err := h.service.GetHistory(r.Context(), userID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Failed to get history", "error", err, "user_id", userID)
		respondServiceError(w, err)
		return
	}
	if events == nil {
		events = []domain.XPEvent{}
	}

	respondJSON(w, http.StatusOK, HistoryResponse{UserID: userID, Events: events})
}

func (h *ProgressHandler) limitParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	limit, ok := GetOptionalIntQueryParam(r, w, "limit", int64(def))
	if !ok {
		return 0, false
	}
	if limit == 0 {
		limit = int64(def)
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return int(limit), true
}
