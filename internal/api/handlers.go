// Package api serves the wavelength calculation over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/RyanBlaney/breakwave/algorithms/dispersion"
	"github.com/RyanBlaney/breakwave/logging"
)

// WavelengthRequest is the body of POST /api/wavelength. Pointers tell a
// missing field apart from an explicit zero.
type WavelengthRequest struct {
	WavePeriod *float64 `json:"wave_period"`
	WaterLevel *float64 `json:"water_level"`
}

// WavelengthResponse carries the solved wavelength in metres
type WavelengthResponse struct {
	Wavelength float64 `json:"wavelength"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RegisterHandlers registers the calculation HTTP handlers
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/wavelength", handleWavelength())
	mux.HandleFunc("/api/health", handleHealth())
}

// handleWavelength solves the dispersion relation for the posted period and depth
func handleWavelength() http.HandlerFunc {
	logger := logging.WithFields(logging.Fields{"component": "api", "endpoint": "wavelength"})

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req WavelengthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		switch {
		case req.WavePeriod == nil:
			writeError(w, http.StatusBadRequest, "missing field: wave_period")
			return
		case req.WaterLevel == nil:
			writeError(w, http.StatusBadRequest, "missing field: water_level")
			return
		}

		wavelength := dispersion.ComputeWavelength(*req.WavePeriod, *req.WaterLevel)
		if math.IsNaN(wavelength) || math.IsInf(wavelength, 0) {
			logger.Warn("Dispersion solve diverged", logging.Fields{
				"wave_period": *req.WavePeriod,
				"water_level": *req.WaterLevel,
			})
			writeError(w, http.StatusUnprocessableEntity, "wavelength did not converge")
			return
		}

		logger.Debug("Computed wavelength", logging.Fields{
			"wave_period": *req.WavePeriod,
			"water_level": *req.WaterLevel,
			"wavelength":  wavelength,
		})
		writeJSON(w, http.StatusOK, WavelengthResponse{Wavelength: wavelength})
	}
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error(err, "Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
