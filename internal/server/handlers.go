package server

import (
	"errors"
	"net/http"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/jsonutil"
	"github.com/mrz1836/go-bikerental/internal/predict"
)

// errorBody is the response for requests that never reached the service
type errorBody struct {
	Detail string `json:"detail"`
}

// failedPrediction is a packaged result plus the reason it has no predictions
type failedPrediction struct {
	*predict.Result
	Detail string `json:"detail"`
}

// healthBody is the response of the health endpoint
type healthBody struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Version: s.service.Version()})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer func() { _ = body.Close() }()

	var input any
	if err := jsonutil.DecodeNumbers(body, &input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Detail: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
		return
	}

	result, err := s.service.MakePrediction(r.Context(), input)
	if err != nil {
		if result == nil {
			writeJSON(w, statusFor(err), errorBody{Detail: err.Error()})
			return
		}
		if result.RequestID != "" {
			w.Header().Set(requestIDHeader, result.RequestID)
		}
		writeJSON(w, statusFor(err), failedPrediction{Result: result, Detail: err.Error()})
		return
	}

	w.Header().Set(requestIDHeader, result.RequestID)
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps a prediction error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, appErrors.ErrSchemaValidation),
		errors.Is(err, appErrors.ErrUnmappedCategory),
		errors.Is(err, appErrors.ErrUnknownCategory),
		errors.Is(err, appErrors.ErrMissingColumn),
		errors.Is(err, appErrors.ErrInvalidDate),
		errors.Is(err, appErrors.ErrNonNumericValue),
		errors.Is(err, appErrors.ErrMissingValue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := jsonutil.MarshalJSON(v)
	if err != nil {
		http.Error(w, `{"detail":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
