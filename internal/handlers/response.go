package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/middlewares"
)

//go:generate mockgen -destination=mocks.go -package=handlers . Registerer,Loginer,UserLister,UserGetter,UserUpdater,PostLister,PostGetter,PostCreator,PostUpdater,TagLister,TaggedPostLister

// ErrorResponse is the body of every failed request
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: not found
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeError maps application errors to HTTP statuses. Anything unknown is
// logged with the request id and reported as an internal error. Errors that
// carry a database error are reported by their sentinel message only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, clientMessage(err, apperrors.ErrNotFound))
	case errors.Is(err, apperrors.ErrConflict):
		writeErrorMessage(w, http.StatusBadRequest, clientMessage(err, apperrors.ErrConflict))
	case errors.Is(err, apperrors.ErrValidation):
		writeErrorMessage(w, http.StatusBadRequest, clientMessage(err, apperrors.ErrValidation))
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Log.Errorw("internal server error",
			"request_id", middlewares.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"uri", r.RequestURI,
			"err", err,
		)
		writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// clientMessage hides Postgres messages, which name constraints and columns.
func clientMessage(err, sentinel error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return sentinel.Error()
	}
	return err.Error()
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeErrorMessage(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
