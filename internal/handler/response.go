package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

const (
	msgUnavailable = "service unavailable, please retry later"
	msgInternal    = "internal server error"
	msgBadPayload  = "invalid request payload"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a status code through model.Classify. Upstream and
// internal failures never leak their cause to the caller.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	category := model.Classify(err)
	status, message := http.StatusInternalServerError, msgInternal

	switch category {
	case model.CategoryValidation:
		status, message = http.StatusBadRequest, err.Error()
	case model.CategoryBusinessRule:
		status, message = http.StatusUnprocessableEntity, err.Error()
	case model.CategoryMismatch:
		status, message = http.StatusForbidden, err.Error()
	case model.CategoryNotFound:
		status, message = http.StatusNotFound, err.Error()
	case model.CategoryUnavailable:
		status, message = http.StatusServiceUnavailable, msgUnavailable
	}

	entry := logger.WithError(err).WithField("category", category.String())
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	writeJSON(w, status, ErrorResponse{Error: message, Category: category.String()})
}

func writeBadPayload(w http.ResponseWriter, logger *logrus.Logger, err error) {
	logger.WithError(err).Warn("Failed to decode request body")
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgBadPayload, Category: model.CategoryValidation.String()})
}
