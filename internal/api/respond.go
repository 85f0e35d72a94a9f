package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"carrental/internal/entities"
	apperrors "carrental/internal/errors"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps err to its kind's status code. Errors without a kind are
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	status := kind.HTTPStatus()
	if kind == apperrors.KindInternal {
		log.Printf("[%s] %s %s: %v", RequestIDFromContext(r.Context()), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, entities.ErrorResponse{
		Error: apperrors.Message(err),
		Kind:  kind.String(),
		Code:  status,
	})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, entities.ErrorResponse{
		Error: msg,
		Kind:  apperrors.KindValidation.String(),
		Code:  http.StatusBadRequest,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func muxVar(r *http.Request, name string) (string, bool) {
	v, ok := mux.Vars(r)[name]
	return v, ok
}

// pathID reads the {id} route variable.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw, _ := muxVar(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "Invalid id")
		return 0, false
	}
	return id, true
}
