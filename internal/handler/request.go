package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// OwnerID extracts the authenticated user's ID from the X-User-ID header.
// It writes a 401 response and returns false when the header is missing or
// malformed.
func OwnerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header is required")
		return 0, false
	}

	userID, err := strconv.Atoi(raw)
	if err != nil || userID <= 0 {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header must be a positive integer")
		return 0, false
	}

	return userID, true
}

// PathID extracts a positive integer path variable, writing a validation
// error when it is malformed
func PathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars[name])
	if err != nil || id <= 0 {
		WriteValidationError(w, "invalid "+name+" format")
		return 0, false
	}
	return id, true
}

// Pagination parses limit and offset query parameters with sane defaults
func Pagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}
	if raw := query.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
