package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// OKResponse wraps mutation results as {"ok": true, ...}.
type OKResponse struct {
	OK      bool   `json:"ok"`
	Lesson  any    `json:"lesson,omitempty"`
	OrderID string `json:"orderId,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Env     string `json:"env,omitempty"`
}

// ResponseJSON writes v as JSON with the given status code
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// ------------- Success responses -------------

// returns 200 OK with a raw payload (arrays for list endpoints)
func ResponseSuccess(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusOK, data)
}

// returns 200 OK with {"ok": true, ...}
func ResponseOK(w http.ResponseWriter, body OKResponse) {
	body.OK = true
	ResponseJSON(w, http.StatusOK, body)
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, details any) {
	ResponseJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusNotFound, ErrorResponse{Error: message})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, ErrorResponse{Error: message})
}
