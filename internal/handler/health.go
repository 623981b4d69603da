package handler

import (
	"net/http"
)

// BreakerStates reports the circuit breaker state per collaborator.
type BreakerStates interface {
	States() map[string]string
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Breakers map[string]string `json:"breakers"`
}

func Health(breakers BreakerStates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Breakers: breakers.States()})
	}
}
