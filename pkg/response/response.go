package response

import (
	"encoding/json"
	"net/http"
)

// ErrorCode is the "code" value of authentication failures on scan routes.
const ErrorCode = "error"

type Message struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// JSON writes data as the raw response body. Scanner apps expect unwrapped
// payloads, so there is no success envelope.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Message{Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// UnauthorizedCode is Unauthorized with the {code, message} shape used by
// the ticket validation route.
func UnauthorizedCode(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnauthorized, Message{Code: ErrorCode, Message: message})
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
