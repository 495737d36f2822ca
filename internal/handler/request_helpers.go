package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/osse101/XPEngine_Go/internal/logger"
)

// maxRequestBodyBytes bounds JSON request bodies
const maxRequestBodyBytes = 1 << 20

// ValidationErrorResponse is the 400 body for a request that decoded but failed validation
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest reads a JSON body into req and runs struct validation.
// On failure the 400 response is already written and the caller just returns.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req any, action string) error {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn("Undecodable request body", "action", action, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Debug("Request failed validation", "action", action, "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}

// GetQueryParam returns a required query parameter, answering 400 when it is absent
func GetQueryParam(r *http.Request, w http.ResponseWriter, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		logger.FromContext(r.Context()).Warn("Missing query parameter", "param", name)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, name))
		return "", false
	}
	return value, true
}

// GetIntQueryParam returns a required non-negative integer query parameter.
// Missing, non-numeric and negative values are rejected with 400.
func GetIntQueryParam(r *http.Request, w http.ResponseWriter, name string) (int64, bool) {
	raw, ok := GetQueryParam(r, w, name)
	if !ok {
		return 0, false
	}
	return parseNonNegative(r, w, name, raw)
}

// GetOptionalIntQueryParam is GetIntQueryParam with a fallback for a missing parameter
func GetOptionalIntQueryParam(r *http.Request, w http.ResponseWriter, name string, fallback int64) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	return parseNonNegative(r, w, name, raw)
}

func parseNonNegative(r *http.Request, w http.ResponseWriter, name, raw string) (int64, bool) {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		logger.FromContext(r.Context()).Warn("Invalid integer query parameter", "param", name, "value", raw)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, name))
		return 0, false
	}
	return value, true
}

// LogRequestFields logs request details at debug level. Odd argument lists are dropped.
func LogRequestFields(log *slog.Logger, keyvals ...any) {
	if len(keyvals)%2 != 0 {
		log.Warn("LogRequestFields called with odd number of arguments")
		return
	}
	log.Debug("Request details", keyvals...)
}
