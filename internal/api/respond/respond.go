// Package respond is the single place where domain errors become HTTP
// statuses and user-visible messages.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/avolkov/ipod-store/internal/domain"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [respond.JSON] encode: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func Error(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR [api] %v", err)
	}
	JSON(w, status, errorBody{Error: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, domain.ErrWeakPassword.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, domain.ErrDuplicateEmail.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, domain.ErrMissingToken.Error()
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, domain.ErrInvalidToken.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, domain.ErrProductNotFound.Error()
	case errors.Is(err, domain.ErrStorageTimeout), errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
